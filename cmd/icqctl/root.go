package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	icq "github.com/CosmWasm/wasmicq"
	"github.com/CosmWasm/wasmicq/internal/config"
	"github.com/CosmWasm/wasmicq/internal/logging"
	"github.com/CosmWasm/wasmicq/internal/metrics"
	"github.com/CosmWasm/wasmicq/internal/store"
)

// app is shared by all subcommands once the root pre-run has loaded the config.
type app struct {
	configPath string
	cfg        config.Config
	logger     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "icqctl",
		Short:         "Interchain query contract host",
		Version:       icq.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the TOML config file (defaults and WASMICQ_* env when empty)")

	root.AddCommand(
		newConfigCmd(a),
		newDemoCmd(a),
		newStateCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	log.Logger = logger
	return nil
}

// openContract opens the configured database. The returned func closes it.
func (a *app) openContract(m *metrics.Metrics) (*icq.Contract, func() error, error) {
	db, err := store.OpenDB(a.cfg.DB.Backend, a.cfg.DB.Name, a.cfg.DB.Dir)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug().
		Str("backend", a.cfg.DB.Backend).
		Str("dir", a.cfg.DB.Dir).
		Str("name", a.cfg.DB.Name).
		Msg("database opened")
	return icq.NewContract(db, a.cfg, a.logger, icq.WithMetrics(m)), db.Close, nil
}
