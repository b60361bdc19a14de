package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"attr-composer/internal/gen"
)

func newGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen FILE",
		Short: "Generate typed Go facades for a declaration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}

			cfg := gen.DefaultGeneratorConfig()
			cfg.PackageName = a.cfg.Gen.Package
			cfg.OutputDir = a.cfg.Gen.Output
			cfg.GenerateComments = a.cfg.Gen.Comments
			cfg.Source = filepath.Base(args[0])

			files, err := gen.NewGenerator(cfg).Generate(s)
			if err != nil {
				return err
			}

			if err := gen.WriteFiles(files, cfg.OutputDir); err != nil {
				return err
			}

			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(cfg.OutputDir, f.Filename))
			}

			a.logger.Info("generated facades", "files", len(files), "dir", cfg.OutputDir)

			return nil
		},
	}

	cmd.Flags().StringP("package", "p", "", "package name of the generated files")
	cmd.Flags().StringP("output", "o", "", "output directory")

	_ = a.v.BindPFlag("gen.package", cmd.Flags().Lookup("package"))
	_ = a.v.BindPFlag("gen.output", cmd.Flags().Lookup("output"))

	return cmd
}
