package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"attr-composer/composition"
)

func newDescribeCmd(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "describe FILE",
		Short: "Print the types, rules and accessors of a declaration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, s, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, t := range s.Types() {
				describeType(out, t)
			}

			if dump {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
				cfg.Fdump(out, f)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "also dump the parsed declaration file")

	return cmd
}

func describeType(out io.Writer, t *composition.Type) {
	header := fmt.Sprintf("%s %s", strings.ToLower(t.Kind().String()), t.Name())
	if p := t.Parent(); p != nil {
		header += " extends " + p.Name()
	}

	fmt.Fprintln(out, header)

	if cols := t.Columns(); len(cols) > 0 {
		fmt.Fprintf(out, "  columns: %s\n", strings.Join(cols, ", "))
	}

	for _, r := range t.Rules() {
		switch rule := r.(type) {
		case *composition.ForwardRule:
			pairs := make([]string, 0, len(rule.Mapping()))
			for _, p := range rule.Mapping() {
				pairs = append(pairs, p.Column+" -> "+p.Alias)
			}

			fmt.Fprintf(out, "  compose %s: %s (inverse_of %s) {%s}\n",
				rule.Name(), rule.ClassName(), rule.InverseOf(), strings.Join(pairs, ", "))

		case *composition.InverseRule:
			line := fmt.Sprintf("  composed_from %s: %s (inverse_of %s)", rule.Name(), rule.ClassName(), rule.InverseOf())
			if _, err := rule.Forward(); err != nil {
				line += " unpaired: " + err.Error()
			}

			fmt.Fprintln(out, line)
		}
	}

	// Composite accessors appear once their relations pair.
	if err := t.Materialize(); err != nil {
		fmt.Fprintf(out, "  unpaired: %v\n", err)
	}

	fmt.Fprintf(out, "  accessors: %s\n", strings.Join(t.Accessors(), ", "))
}
