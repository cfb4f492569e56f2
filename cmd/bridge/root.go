package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cad-ui-bridge/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type runFunc func(ctx context.Context, cfg config.Config) error

func newRootCmd(run runFunc) *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "cad-bridge [document]",
		Short: "Serve the embedded UI bridge for a CAD document",
		Long: `cad-bridge connects an embedded web UI to a host document. UI pages load
/bridge.js, call host operations through window.UiBindings and receive events
and store actions over a websocket.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set("document.path", args[0])
			}
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/cad-ui-bridge/config.yaml)")
	f.String("listen", "", "address to serve the bridge on")
	f.String("document", "", "JSON document to open")
	f.String("accounts-db", "", "sqlite database holding the accounts")
	f.String("host-name", "", "application name reported to the UI")
	f.String("log-level", "", "log level (trace, debug, info, warn, error, none)")

	for key, name := range map[string]string{
		"listen":        "listen",
		"document.path": "document",
		"accounts.db":   "accounts-db",
		"host.name":     "host-name",
		"log_level":     "log-level",
	} {
		if err := v.BindPFlag(key, f.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
	return cmd
}
