// Package export writes every subsection of a master document out as its own
// article file, plus one combined Ghost import document. Jobs run on a small
// worker pool so the HTTP API can start exports asynchronously and poll.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/ghostprep/ghostprep/internal/article"
	"github.com/ghostprep/ghostprep/internal/ghost"
	"github.com/ghostprep/ghostprep/internal/section"
	"github.com/ghostprep/ghostprep/internal/slug"
)

// GhostImportFilename is the combined import document written next to the
// per-section article files.
const GhostImportFilename = "ghost-import.json"

// maxConcurrentWrites bounds per-job article rendering/writing.
const maxConcurrentWrites = 4

// ErrQueueFull reports that the job queue cannot accept more work.
var ErrQueueFull = fmt.Errorf("export queue is full")

// Exporter renders and writes articles for every subsection of a document.
type Exporter struct {
	log             *slog.Logger
	excerptMaxChars int
	stats           *Stats
}

func NewExporter(log *slog.Logger, excerptMaxChars int, stats *Stats) *Exporter {
	return &Exporter{
		log:             log,
		excerptMaxChars: excerptMaxChars,
		stats:           stats,
	}
}

// Run executes a job to completion, updating its status and progress.
func (e *Exporter) Run(ctx context.Context, job *Job) {
	log := e.log.With("job_id", job.ID)
	job.SetStatus(StatusRunning)

	document := job.Document()
	subs := slices.Collect(section.All(document))
	job.SetTotalSections(len(subs))
	if len(subs) == 0 {
		job.AddError("document contains no subsections")
		job.SetStatus(StatusFailed)
		return
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		job.AddError(fmt.Sprintf("create output dir: %s", err))
		job.SetStatus(StatusFailed)
		return
	}

	// Duplicate slugs would silently overwrite each other's files, so the
	// first occurrence wins and the rest are skipped up front.
	seen := make(map[string]bool)
	var unique []section.Subsection
	for _, sub := range subs {
		s := slug.Slugify(sub.Title)
		if s == "" {
			job.AddError(fmt.Sprintf("section %q: empty slug", sub.Title))
			job.IncrSkipped()
			continue
		}
		if seen[s] {
			job.AddError(fmt.Sprintf("section %q: duplicate slug %q", sub.Title, s))
			job.IncrSkipped()
			continue
		}
		seen[s] = true
		unique = append(unique, sub)
	}

	type result struct {
		idx int
		art article.Article
		err error
	}
	sem := make(chan struct{}, maxConcurrentWrites)
	results := make(chan result, len(unique))

	for i, sub := range unique {
		select {
		case <-ctx.Done():
			job.AddError("export canceled")
			job.SetStatus(StatusFailed)
			return
		case sem <- struct{}{}:
		}
		go func(i int, sub section.Subsection) {
			defer func() { <-sem }()
			start := time.Now()
			art, err := e.exportOne(document, sub, job.OutputDir)
			e.stats.Record(time.Since(start))
			results <- result{idx: i, art: art, err: err}
		}(i, sub)
	}

	articles := make([]article.Article, len(unique))
	written := make([]bool, len(unique))
	hadErrors := len(unique) < len(subs)
	for range unique {
		r := <-results
		if r.err != nil {
			log.Error("section export failed", "error", r.err)
			job.AddError(r.err.Error())
			job.IncrSkipped()
			hadErrors = true
			continue
		}
		articles[r.idx] = r.art
		written[r.idx] = true
		job.IncrWritten()
	}

	// Keep document order in the combined import.
	var exported []article.Article
	for i, ok := range written {
		if ok {
			exported = append(exported, articles[i])
		}
	}

	if len(exported) > 0 {
		if err := e.writeGhostImport(exported, job.OutputDir); err != nil {
			log.Error("ghost import write failed", "error", err)
			job.AddError(err.Error())
			hadErrors = true
		}
	}

	switch {
	case len(exported) == 0:
		job.SetStatus(StatusFailed)
	case hadErrors:
		job.SetStatus(StatusPartial)
	default:
		job.SetStatus(StatusCompleted)
	}
	log.Info("export finished", "written", len(exported), "total", len(subs))
}

// exportOne builds one article and writes its front-mattered file.
func (e *Exporter) exportOne(document string, sub section.Subsection, outDir string) (article.Article, error) {
	category := section.EnclosingCategory(document, sub.Start)
	art, err := article.Build(sub, category, article.Options{ExcerptMaxChars: e.excerptMaxChars})
	if err != nil {
		return article.Article{}, fmt.Errorf("build %q: %w", sub.Title, err)
	}

	out, err := art.Render()
	if err != nil {
		return article.Article{}, fmt.Errorf("render %q: %w", sub.Title, err)
	}

	path := filepath.Join(outDir, art.Filename())
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return article.Article{}, fmt.Errorf("write %s: %w", path, err)
	}
	return art, nil
}

func (e *Exporter) writeGhostImport(articles []article.Article, outDir string) error {
	path := filepath.Join(outDir, GhostImportFilename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return ghost.WriteImport(f, ghost.BuildImport(articles, time.Now()))
}

// Runner owns the job queue, the worker pool, and the job registry.
type Runner struct {
	jobs     *JobStore
	queue    chan *Job
	exporter *Exporter
	log      *slog.Logger
	workers  int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(exporter *Exporter, log *slog.Logger, workers, queueSize int, jobTTL time.Duration) *Runner {
	return &Runner{
		jobs:     NewJobStore(jobTTL),
		queue:    make(chan *Job, queueSize),
		exporter: exporter,
		log:      log,
		workers:  workers,
	}
}

// Start launches worker goroutines and the job store cleanup loop.
func (r *Runner) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for range r.workers {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-r.queue:
					if !ok {
						return
					}
					r.exporter.Run(workerCtx, job)
				}
			}
		}()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				r.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels workers and waits for them to drain.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Enqueue registers the job and queues it for a worker.
func (r *Runner) Enqueue(job *Job) error {
	select {
	case r.queue <- job:
		r.jobs.Put(job)
		return nil
	default:
		return ErrQueueFull
	}
}

// Job looks up a job by id; nil when unknown or expired.
func (r *Runner) Job(id string) *Job {
	return r.jobs.Get(id)
}

// StatsSnapshot reports rolling export latency aggregates.
func (r *Runner) StatsSnapshot() StatsSnapshot {
	return r.exporter.stats.Snapshot()
}
