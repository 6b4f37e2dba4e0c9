package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fileconverser/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var skipBind bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and the API bind address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, !skipBind)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, renderCheck(r.Passed, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Result", "Detail"}, rows, nil))
			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipBind, "skip-bind", false, "Skip the API bind check (e.g. while the server runs)")
	return cmd
}
