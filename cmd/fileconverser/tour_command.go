package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fileconverser/internal/prefs"
)

func newTourCommand(ctx *commandContext) *cobra.Command {
	tourCmd := &cobra.Command{
		Use:   "tour",
		Short: "Inspect or change onboarding tour flags",
	}
	tourCmd.AddCommand(newTourStatusCommand(ctx))
	tourCmd.AddCommand(newTourSetCommand(ctx, "complete", "Mark a tour as completed", true))
	tourCmd.AddCommand(newTourSetCommand(ctx, "reset", "Show a tour again", false))
	return tourCmd
}

func openPrefs(cmd *cobra.Command, ctx *commandContext) (*prefs.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return prefs.Open(cmd.Context(), cfg.PrefsPath())
}

func newTourStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which tours have been completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openPrefs(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			values, err := store.All(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(values))
			for _, flag := range prefs.Flags() {
				rows = append(rows, []string{string(flag), yesNo(values[flag])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Flag", "Completed"}, rows, nil))
			return nil
		},
	}
}

func newTourSetCommand(ctx *commandContext, use, short string, value bool) *cobra.Command {
	var resize bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			flag := prefs.FlagTour
			if resize {
				flag = prefs.FlagResizeTour
			}
			store, err := openPrefs(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Set(cmd.Context(), flag, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %t\n", flag, value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&resize, "resize", false, "Target the resize screen tour")
	return cmd
}
