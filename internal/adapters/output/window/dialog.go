package window

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"cad-ui-bridge/internal/domain/model"
	"cad-ui-bridge/internal/ports"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// PromptDialog is a modal sign-in dialog on a terminal. It asks for a server, an
// email and a token, then stores the account. An empty server cancels.
type PromptDialog struct {
	in       *bufio.Reader
	out      io.Writer
	accounts ports.AccountRepository

	// readSecret reads the token without echo when in is a terminal.
	readSecret func() (string, error)
}

func NewPromptDialog(in io.Reader, out io.Writer, accounts ports.AccountRepository) *PromptDialog {
	d := &PromptDialog{in: bufio.NewReader(in), out: out, accounts: accounts}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		d.readSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(d.out)
			return string(b), err
		}
	}
	return d
}

// Run blocks until the user answers or cancels.
func (d *PromptDialog) Run(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintln(d.out, "Add account (leave server empty to cancel)")

	server, err := d.ask("Server URL: ")
	if err != nil || server == "" {
		return false, err
	}
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false, fmt.Errorf("invalid server url %q", server)
	}
	email, err := d.ask("Email: ")
	if err != nil {
		return false, err
	}
	token, err := d.askSecret("Token: ")
	if err != nil {
		return false, err
	}
	if email == "" || token == "" {
		return false, errors.New("email and token are required")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	account := model.Account{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(u.Host+"/"+email)).String(),
		ServerName: u.Host,
		RestAPI:    strings.TrimSuffix(u.String(), "/") + "/api",
		Email:      email,
		Token:      token,
	}
	if err := d.accounts.Upsert(ctx, account); err != nil {
		return false, fmt.Errorf("store account: %w", err)
	}

	existing, err := d.accounts.All(ctx)
	if err != nil {
		return true, fmt.Errorf("list accounts: %w", err)
	}
	hasDefault := false
	for _, a := range existing {
		hasDefault = hasDefault || a.IsDefault
	}
	if !hasDefault {
		if err := d.accounts.SetDefault(ctx, account.ID); err != nil {
			return true, fmt.Errorf("set default account: %w", err)
		}
	}
	fmt.Fprintf(d.out, "Added %s on %s\n", email, u.Host)
	return true, nil
}

func (d *PromptDialog) ask(prompt string) (string, error) {
	fmt.Fprint(d.out, prompt)
	line, err := d.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d *PromptDialog) askSecret(prompt string) (string, error) {
	if d.readSecret == nil {
		return d.ask(prompt)
	}
	fmt.Fprint(d.out, prompt)
	secret, err := d.readSecret()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(secret), nil
}
