package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attr-composer/composition"
	"attr-composer/internal/declfile"
	"attr-composer/internal/diagnostic"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a declaration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := declfile.LoadFile(args[0])
			if err != nil {
				return err
			}

			diags := declfile.Validate(f)
			out := cmd.OutOrStdout()

			for _, group := range [][]diagnostic.Diagnostic{diags.Errors, diags.Warnings, diags.Infos} {
				for _, d := range group {
					fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
				}
			}

			if diags.HasErrors() {
				return fmt.Errorf("%s: %d error(s)", args[0], len(diags.Errors))
			}

			// The engine checks declarations the file format cannot express.
			if err := declfile.Apply(f, composition.NewSchema(composition.WithLogger(a.logger))); err != nil {
				return err
			}

			fmt.Fprintf(out, "%s: ok (%d hosts, %d composites, %d warnings)\n",
				args[0], len(f.Hosts), len(f.Composites), len(diags.Warnings))

			return nil
		},
	}
}
