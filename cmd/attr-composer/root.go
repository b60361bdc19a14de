package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"attr-composer/composition"
	"attr-composer/internal/config"
	"attr-composer/internal/declfile"
)

var version = "dev"

// app carries the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "attr-composer",
		Short:         "Compose value objects from flat record columns",
		Long:          `attr-composer checks, describes and generates typed facades for composition declaration files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: "+config.DefaultFile+" when present)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newCheckCmd(a),
		newDescribeCmd(a),
		newGenCmd(a),
		newDemoCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg, a.logger = cfg, logger
	a.logger.Debug("loaded config", "file", a.v.ConfigFileUsed())

	return nil
}

// loadSchema parses, validates and applies a declaration file.
func (a *app) loadSchema(path string) (*declfile.File, *composition.Schema, error) {
	f, err := declfile.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	s := composition.NewSchema(composition.WithLogger(a.logger))
	if err := declfile.Apply(f, s); err != nil {
		return nil, nil, err
	}

	return f, s, nil
}
