package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"fileconverser/internal/daemon"
	"fileconverser/internal/logging"
	"fileconverser/internal/preflight"
	"fileconverser/internal/prefs"
	"fileconverser/internal/workshop"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workshop over the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cmd, ctx, bind)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind")
	return cmd
}

func runServe(parent context.Context, cmd *cobra.Command, ctx *commandContext, bind string) error {
	if parent == nil {
		parent = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if bind = strings.TrimSpace(bind); bind != "" {
		local := *cfg
		local.Paths.APIBind = bind
		cfg = &local
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	if failed := preflight.Failed(preflight.RunAll(signalCtx, cfg, true)); len(failed) > 0 {
		for _, r := range failed {
			logging.ErrorWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldErrorHint, "run `fileconverser doctor` for details"))
		}
		return errors.New("preflight checks failed")
	}

	store, err := prefs.Open(signalCtx, cfg.PrefsPath())
	if err != nil {
		logging.WarnWithContext(logger, "onboarding store unavailable", "prefs_unavailable",
			logging.String(logging.FieldImpact, "onboarding endpoints answer 503"),
			logging.Error(err))
	} else {
		defer store.Close()
	}

	engine := workshop.New(cfg, logger)
	d, err := daemon.New(cfg, engine, store, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fileconverser listening on http://%s\n", d.Addr())

	<-signalCtx.Done()
	logger.Info("fileconverser server shutting down")
	d.Stop()
	return nil
}
