package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fileconverser/internal/config"
	"fileconverser/internal/export"
	"fileconverser/internal/fileutil"
	"fileconverser/internal/intake"
	"fileconverser/internal/logging"
	"fileconverser/internal/media"
	"fileconverser/internal/queue"
	"fileconverser/internal/textutil"
	"fileconverser/internal/workshop"
)

// drop is a set of files delivered to one destination.
type drop struct {
	dest  intake.Destination
	files []intake.File
}

// session describes one processing command invocation.
type session struct {
	drops   []drop
	patches map[queue.Kind]workshop.Patch
	// kinds limits which queues are processed and reported.
	kinds  []queue.Kind
	batch  bool
	zip    string
	outDir string
}

type sessionRow struct {
	kind    queue.Kind
	job     *queue.Job
	output  string
	skipped string
}

// readInputs loads files from disk. The media type is left empty so intake
// derives it from the extension.
func readInputs(paths []string) ([]intake.File, error) {
	files := make([]intake.File, 0, len(paths))
	for _, p := range paths {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", p, err)
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return nil, fmt.Errorf("inspect %q: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", p, err)
		}
		files = append(files, intake.File{Name: filepath.Base(expanded), Data: data})
	}
	return files, nil
}

// splitByCategory separates images from everything else.
func splitByCategory(files []intake.File) (images, others []intake.File) {
	for _, f := range files {
		mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))
		if media.Classify(mediaType, f.Name) == media.CategoryImage {
			images = append(images, f)
		} else {
			others = append(others, f)
		}
	}
	return images, others
}

func resolveOutDir(cfg *config.Config, flag string) (string, error) {
	dir := strings.TrimSpace(flag)
	if dir == "" {
		return cfg.Paths.OutputDir, nil
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", expanded, err)
	}
	return expanded, nil
}

// runSession ingests, configures and runs every job, writes the results and
// prints a summary table.
func runSession(cmd *cobra.Command, ctx *commandContext, s session) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	local := *cfg
	local.Preview.Enabled = false
	engine := workshop.New(&local, logger)
	return executeSession(cmd.Context(), cmd.OutOrStdout(), engine, s)
}

func executeSession(ctx context.Context, out io.Writer, engine *workshop.Engine, s session) error {
	if ctx == nil {
		ctx = context.Background()
	}
	wanted := make(map[queue.Kind]bool, len(s.kinds))
	for _, kind := range s.kinds {
		wanted[kind] = true
	}

	added := make(map[queue.Kind][]string)
	var rows []sessionRow
	for _, d := range s.drops {
		if len(d.files) == 0 {
			continue
		}
		res, err := engine.Ingest(ctx, d.files, d.dest)
		if err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			rows = append(rows, sessionRow{job: &queue.Job{Source: queue.Source{Name: skip.Name}}, skipped: skip.Reason})
		}
		for _, kind := range queue.Kinds() {
			ids := res.Added[kind]
			if len(ids) == 0 {
				continue
			}
			if !wanted[kind] {
				for _, id := range ids {
					if job, err := engine.Job(kind, id); err == nil {
						rows = append(rows, sessionRow{kind: kind, job: job, skipped: "not supported by this command"})
					}
				}
				continue
			}
			added[kind] = append(added[kind], ids...)
		}
	}

	for _, kind := range s.kinds {
		patch, ok := s.patches[kind]
		if !ok {
			continue
		}
		for _, id := range added[kind] {
			if _, err := engine.Configure(kind, id, patch); err != nil {
				return err
			}
		}
	}

	if err := runKinds(ctx, engine, s, added); err != nil {
		return err
	}

	written, err := writeOutputs(engine, s, added)
	if err != nil {
		return err
	}

	failed := 0
	total := 0
	for _, kind := range s.kinds {
		for _, id := range added[kind] {
			job, err := engine.Job(kind, id)
			if err != nil {
				continue
			}
			total++
			if job.Status == queue.StatusError {
				failed++
			}
			rows = append(rows, sessionRow{kind: kind, job: job, output: written[id]})
		}
	}

	printSession(out, rows)
	if s.zip != "" && total > failed {
		fmt.Fprintf(out, "Wrote archive %s\n", s.zip)
	} else if s.zip == "" && len(written) > 0 {
		fmt.Fprintf(out, "Wrote %d file(s) to %s\n", len(written), s.outDir)
	}
	if total == 0 {
		return errors.New("no files were queued")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, total)
	}
	return nil
}

func runKinds(ctx context.Context, engine *workshop.Engine, s session, added map[queue.Kind][]string) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	for _, kind := range s.kinds {
		ids := added[kind]
		if len(ids) == 0 {
			continue
		}
		if s.batch && kind == queue.KindImageResize {
			if _, err := engine.Select(kind, ids[0]); err != nil {
				return err
			}
			if err := engine.RunAll(ctx, kind); err != nil {
				return err
			}
			continue
		}
		for _, id := range ids {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := engine.Run(ctx, kind, id); err != nil {
					record(err)
				}
			}()
		}
	}
	wg.Wait()
	return firstErr
}

// writeOutputs stores completed results in the output directory, or in one
// archive when a zip path was requested. It returns the written path per job.
func writeOutputs(engine *workshop.Engine, s session, added map[queue.Kind][]string) (map[string]string, error) {
	written := make(map[string]string)
	if s.zip != "" {
		for _, kind := range s.kinds {
			if len(added[kind]) > 0 {
				return exportArchive(engine, kind, s.zip)
			}
		}
		return written, nil
	}

	for _, kind := range s.kinds {
		results, err := engine.Results(kind)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			target, err := fileutil.UniquePath(s.outDir, textutil.SanitizeFileName(r.Name))
			if err != nil {
				return nil, err
			}
			if err := fileutil.WriteFileAtomic(target, r.Data, 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", r.Name, err)
			}
			written[r.Job.ID] = target
		}
	}
	return written, nil
}

func exportArchive(engine *workshop.Engine, kind queue.Kind, path string) (map[string]string, error) {
	written := make(map[string]string)
	results, err := engine.Results(kind)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return written, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	names, err := engine.ExportZip(kind, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, export.ErrNoEntries) {
			return written, nil
		}
		return nil, fmt.Errorf("write archive: %w", err)
	}
	for i, r := range results {
		if i < len(names) {
			written[r.Job.ID] = path + ":" + names[i]
		}
	}
	return written, nil
}

func printSession(out io.Writer, rows []sessionRow) {
	colorize := shouldColorize(out)
	headers := []string{"File", "Queue", "Status", "Size", "Result", "Output"}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		job := row.job
		queueLabel := ""
		if row.kind != "" {
			queueLabel = textutil.Label(string(row.kind))
		}
		if row.skipped != "" {
			table = append(table, []string{job.Source.Name, queueLabel, "skipped", "", "", row.skipped})
			continue
		}
		result := ""
		if job.Status == queue.StatusCompleted && job.ResultSize > 0 {
			result = fmt.Sprintf("%s (%d%% smaller)", media.FormatBytes(job.ResultSize), media.ReductionPercent(job.Source.Size, job.ResultSize))
		} else if job.Status == queue.StatusCompleted && job.ResultWidth > 0 {
			result = fmt.Sprintf("%dx%d", job.ResultWidth, job.ResultHeight)
		}
		output := row.output
		if job.Status == queue.StatusError {
			output = job.ErrorMessage
		}
		table = append(table, []string{
			job.Source.Name,
			queueLabel,
			renderStatus(job.Status, colorize),
			media.FormatBytes(job.Source.Size),
			result,
			output,
		})
	}
	fmt.Fprintln(out, renderTable(headers, table, []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
}

func logSessionStart(ctx *commandContext, command string, count int) {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return
	}
	logger.Debug("processing command started",
		logging.String("command", command),
		logging.Int("files", count))
}

// resolveArchivePath places a bare archive name inside the output directory.
func resolveArchivePath(outDir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if !strings.EqualFold(filepath.Ext(name), ".zip") {
		name += ".zip"
	}
	if filepath.Base(name) == name {
		return fileutil.UniquePath(outDir, textutil.SanitizeFileName(name))
	}
	expanded, err := config.ExpandPath(name)
	if err != nil {
		return "", fmt.Errorf("resolve archive path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create archive directory: %w", err)
	}
	return expanded, nil
}
