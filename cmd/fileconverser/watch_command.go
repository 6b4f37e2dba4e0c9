package main

import (
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fileconverser/internal/events"
	"fileconverser/internal/feed"
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
	"fileconverser/internal/textutil"
)

func (c *commandContext) feedClient() (*feed.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return feed.NewClient(cfg.Paths.APIBind, cfg.Paths.APIToken)
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.feedClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			status, err := client.Status(cmd.Context())
			if err != nil {
				if feed.IsAPIUnavailable(err) {
					fmt.Fprintln(out, "Server: not running")
					return nil
				}
				return err
			}
			rows := [][]string{
				{"Running", yesNo(status.Running)},
				{"Address", status.Address},
				{"Lock file", status.LockFilePath},
				{"Preferences", status.PrefsPath},
				{"Live results", fmt.Sprintf("%d (%s)", status.Blobs, media.FormatBytes(status.BlobBytes))},
				{"Last event", strconv.FormatInt(status.LastEventSeq, 10)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var (
		follow   bool
		queueArg string
		since    int64
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print queue activity from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(queueArg) != "" {
				kind, err := queue.ParseKind(queueArg)
				if err != nil {
					return err
				}
				queueArg = string(kind)
			}
			client, err := ctx.feedClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			q := feed.Query{Since: since, Queue: queueArg}
			if !follow {
				page, err := client.Fetch(cmd.Context(), q)
				if err != nil {
					return unavailableHint(err)
				}
				for _, evt := range page.Events {
					printEvent(out, evt)
				}
				return nil
			}
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return unavailableHint(client.Follow(signalCtx, q, interval, func(evt events.Event) error {
				printEvent(out, evt)
				return nil
			}))
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep polling for new events")
	cmd.Flags().StringVarP(&queueArg, "queue", "q", "", "Only show events for this queue")
	cmd.Flags().Int64Var(&since, "since", 0, "Only show events after this sequence number")
	cmd.Flags().DurationVar(&interval, "interval", feed.DefaultInterval, "Polling interval with --follow")
	return cmd
}

func unavailableHint(err error) error {
	if err != nil && feed.IsAPIUnavailable(err) {
		return fmt.Errorf("server not reachable; start it with `fileconverser serve`: %w", err)
	}
	return err
}

func printEvent(out io.Writer, evt events.Event) {
	parts := []string{
		fmt.Sprintf("#%d", evt.Seq),
		evt.Timestamp.Local().Format(time.TimeOnly),
		string(evt.Type),
	}
	if evt.Queue != "" {
		parts = append(parts, textutil.Label(evt.Queue))
	}
	if evt.JobID != "" {
		parts = append(parts, "job="+evt.JobID)
	}
	if len(evt.JobIDs) > 0 {
		parts = append(parts, fmt.Sprintf("jobs=%d", len(evt.JobIDs)))
	}
	if evt.Status != "" {
		parts = append(parts, "status="+evt.Status)
	}
	if evt.Progress > 0 {
		parts = append(parts, fmt.Sprintf("progress=%d%%", evt.Progress))
	}
	if evt.Message != "" {
		parts = append(parts, strconv.Quote(evt.Message))
	}
	fmt.Fprintln(out, strings.Join(parts, " "))
}
