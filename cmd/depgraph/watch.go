package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/depgraph-dev/depgraph/internal/config"
	"github.com/depgraph-dev/depgraph/internal/discover"
	"github.com/depgraph-dev/depgraph/internal/graph"
	"github.com/depgraph-dev/depgraph/internal/ingestion"
	"github.com/depgraph-dev/depgraph/internal/parser"
	vk "github.com/depgraph-dev/depgraph/internal/store/valkey"
)

var (
	watchOutPath    string
	watchUseQueue   bool
	watchProjectID  string
	watchBuildID    string
	watchDebounceMS int
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch a project tree and keep its graph export current",
	Long: `Seeds an in-memory graph for path (default: current directory) and then
watches the tree for file changes. By default each change re-parses just
that file and rewrites the export at --out in-process (spec's "F replaces
a single file's nodes and edges atomically" incremental rule).

With --queue, changes are instead enqueued onto the Valkey re-index stream
for cmd/worker to apply against the database-backed build identified by
--project-id/--build-id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutPath, "out", "o", "depgraph.json", "export path kept current by the in-process watcher")
	watchCmd.Flags().BoolVar(&watchUseQueue, "queue", false, "enqueue changes onto the Valkey re-index stream instead of updating in-process")
	watchCmd.Flags().StringVar(&watchProjectID, "project-id", "", "project uuid (required with --queue)")
	watchCmd.Flags().StringVar(&watchBuildID, "build-id", "", "build uuid (required with --queue)")
	watchCmd.Flags().IntVar(&watchDebounceMS, "debounce-ms", 250, "coalesce events on the same file within this window")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	if watchUseQueue {
		return runWatchQueue(ctx, root, logger)
	}
	return runWatchInProcess(ctx, root, logger)
}

// runWatchInProcess seeds a graph.Updater for root and keeps watchOutPath
// current, entirely in this process, with no database involved.
func runWatchInProcess(ctx context.Context, root string, logger *slog.Logger) error {
	registry := parser.DefaultRegistry()
	walker := discover.NewWalker(registry.Extensions())

	files, err := walker.ReadAll(ctx, root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	updater := graph.NewUpdater(logger)
	var parsed []*parser.ParsedFile
	for _, f := range files {
		pf, err := registry.ParseFile(parser.FileInput{AbsolutePath: f.AbsolutePath, RelativePath: f.RelativePath, Content: f.Content})
		if err != nil {
			logger.Warn("parse failed, skipping file", slog.String("file", f.RelativePath), slog.String("error", err.Error()))
			continue
		}
		parsed = append(parsed, pf)
	}
	g := updater.Seed(parsed)
	if err := writeExport(g, watchOutPath); err != nil {
		return err
	}
	logger.Info("seeded graph", slog.Int("files", len(parsed)), slog.Int("symbols", g.SymbolCount()))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	debounce := map[string]time.Time{}
	debounceWindow := time.Duration(watchDebounceMS) * time.Millisecond

	logger.Info("watching for changes", slog.String("root", root))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Has(fsnotify.Create) {
					_ = watcher.Add(event.Name)
				}
				continue
			}

			now := time.Now()
			if last, ok := debounce[event.Name]; ok && now.Sub(last) < debounceWindow {
				continue
			}
			debounce[event.Name] = now

			relPath, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}
			relPath = filepath.ToSlash(relPath)
			if registry.ForPath(relPath) == nil {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				g = updater.Remove(relPath)
				logger.Info("file removed", slog.String("file", relPath))
			default: // Write, Create
				f, err := walker.Read(ctx, root, relPath)
				if err != nil {
					logger.Warn("read failed", slog.String("file", relPath), slog.String("error", err.Error()))
					continue
				}
				pf, err := registry.ParseFile(parser.FileInput{AbsolutePath: f.AbsolutePath, RelativePath: f.RelativePath, Content: f.Content})
				if err != nil {
					logger.Warn("parse failed", slog.String("file", relPath), slog.String("error", err.Error()))
					continue
				}
				g = updater.Update(pf)
				logger.Info("file updated", slog.String("file", relPath))
			}

			if err := writeExport(g, watchOutPath); err != nil {
				logger.Error("export write failed", slog.String("error", err.Error()))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}

// runWatchQueue enqueues a ReindexJob per changed file onto the Valkey
// stream for cmd/worker to apply; no local graph state is kept here.
func runWatchQueue(ctx context.Context, root string, logger *slog.Logger) error {
	if watchProjectID == "" || watchBuildID == "" {
		return fmt.Errorf("--project-id and --build-id are required with --queue")
	}
	projectID, err := uuid.Parse(watchProjectID)
	if err != nil {
		return fmt.Errorf("invalid --project-id: %w", err)
	}
	buildID, err := uuid.Parse(watchBuildID)
	if err != nil {
		return fmt.Errorf("invalid --build-id: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := vk.NewClient(cfg.Valkey)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer client.Close()
	producer := ingestion.NewProducer(client)

	registry := parser.DefaultRegistry()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	debounce := map[string]time.Time{}
	debounceWindow := time.Duration(watchDebounceMS) * time.Millisecond

	logger.Info("watching for changes (queue mode)", slog.String("root", root))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Has(fsnotify.Create) {
					_ = watcher.Add(event.Name)
				}
				continue
			}

			now := time.Now()
			if last, ok := debounce[event.Name]; ok && now.Sub(last) < debounceWindow {
				continue
			}
			debounce[event.Name] = now

			relPath, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}
			relPath = filepath.ToSlash(relPath)
			if registry.ForPath(relPath) == nil {
				continue
			}

			job := ingestion.ReindexJob{
				ProjectID: projectID,
				BuildID:   buildID,
				RootPath:  root,
				RelPath:   relPath,
				Removed:   event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename),
			}
			if _, err := producer.Enqueue(ctx, job); err != nil {
				logger.Error("enqueue failed", slog.String("file", relPath), slog.String("error", err.Error()))
				continue
			}
			logger.Info("enqueued reindex job", slog.String("file", relPath), slog.Bool("removed", job.Removed))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}

// addWatchDirs registers root and every non-skipped subdirectory with
// watcher; fsnotify watches are not recursive on their own.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if name != "." && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		switch name {
		case "node_modules", "vendor", "dist", "build":
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func writeExport(g *graph.Graph, path string) error {
	data, err := graph.Export(g)
	if err != nil {
		return fmt.Errorf("export graph: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
