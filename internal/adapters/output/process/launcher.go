package process

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher opens URLs and files with the platform opener, or runs a command line.
type Launcher struct {
	goos     string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

func NewLauncher() *Launcher {
	return &Launcher{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    func(c *exec.Cmd) error { return c.Start() },
	}
}

// Start launches args without waiting for it to exit.
func (l *Launcher) Start(args string) error {
	cmd, err := l.command(strings.TrimSpace(args))
	if err != nil {
		return err
	}
	if err := l.start(cmd); err != nil {
		return err
	}
	if cmd.Process != nil {
		go func() { _ = cmd.Wait() }()
	}
	return nil
}

func (l *Launcher) command(args string) (*exec.Cmd, error) {
	if args == "" {
		return nil, errors.New("empty command")
	}
	if isOpenable(args) {
		switch l.goos {
		case "windows":
			return exec.Command("rundll32", "url.dll,FileProtocolHandler", args), nil
		case "darwin":
			return exec.Command("open", args), nil
		default:
			return exec.Command("xdg-open", args), nil
		}
	}

	fields := strings.Fields(args)
	path, err := l.lookPath(fields[0])
	if err != nil {
		return nil, err
	}
	return exec.Command(path, fields[1:]...), nil
}

func isOpenable(args string) bool {
	for _, prefix := range []string{"http://", "https://", "mailto:", "file://"} {
		if strings.HasPrefix(args, prefix) {
			return true
		}
	}
	return false
}
