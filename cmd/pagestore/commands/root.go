package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/pagestore/internal/app"
	"github.com/dokzlo13/pagestore/internal/config"
	"github.com/dokzlo13/pagestore/internal/stores"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

// NewRootCmd builds the pagestore command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "pagestore",
		Short: "Inspect and edit the persisted collections of the dashboard pages",
		Long: `pagestore opens the key-value backend named in the configuration and
works on the typed collections each page keeps there.

Without --config an in-memory backend is used, which only lives for one command.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Support both -c and --config for config path
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")

	root.AddCommand(
		newPagesCmd(opts),
		newShowCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
		newResetCmd(opts),
	)
	return root
}

func (o *rootOptions) load() error {
	if o.configPath == "" {
		o.cfg = config.Default()
	} else {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}

	setupLogging(o.cfg.Log.GetLevel(), o.cfg.Log.UseJSON, o.cfg.Log.Colors)
	log.Debug().Str("config", o.configPath).Str("backend", o.cfg.Storage.Backend).Msg("Loaded configuration")
	return nil
}

// withPage opens the backend, hydrates the named page and runs fn on it.
func (o *rootOptions) withPage(name string, fn func(r *stores.Registry) error) error {
	a, err := app.New(o.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close storage")
		}
	}()

	r, err := a.Page(name)
	if err != nil {
		return err
	}
	return fn(r)
}
