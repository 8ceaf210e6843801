// Command ghostprep extracts one named technique from a master markdown
// document and emits it as a publish-ready article file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ghostprep/ghostprep/internal/article"
	"github.com/ghostprep/ghostprep/internal/excerpt"
	"github.com/ghostprep/ghostprep/internal/export"
	"github.com/ghostprep/ghostprep/internal/ghost"
	"github.com/ghostprep/ghostprep/internal/section"
	"github.com/ghostprep/ghostprep/internal/source"
	"github.com/ghostprep/ghostprep/internal/suggest"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ghostprep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	docPath := fs.String("doc", source.DefaultFilename, "Path to the master techniques document")
	outDir := fs.String("out", ".", "Directory for extracted article files")
	list := fs.Bool("list", false, "List every technique title instead of extracting")
	exportAll := fs.Bool("export-all", false, "Export every technique as its own article plus a Ghost import document")
	verify := fs.Bool("verify", false, "Verify previously exported article files in the output directory")
	ghostJSON := fs.Bool("ghost-json", false, "Also write a Ghost import document for the extracted article")
	excerptMax := fs.Int("excerpt-max", excerpt.DefaultMaxChars, "Excerpt budget in characters")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ghostprep [flags] <search phrase>\n\n")
		fmt.Fprintf(stderr, "Extracts the technique whose title matches the search phrase and writes\nit to <slug>.md, ready for publishing.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *verify {
		return runVerify(*outDir, stdout, stderr)
	}

	term := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if !*list && !*exportAll && term == "" {
		fs.Usage()
		return exitUsage
	}

	doc, err := source.Read(*docPath)
	if err != nil {
		fmt.Fprintf(stderr, "ghostprep: %v\n", err)
		return exitFailure
	}

	switch {
	case *list:
		for title := range section.Titles(doc) {
			fmt.Fprintln(stdout, title)
		}
		return exitOK
	case *exportAll:
		return runExportAll(doc, *outDir, *excerptMax, stdout, stderr)
	default:
		return runExtract(doc, term, *outDir, *excerptMax, *ghostJSON, stdout, stderr)
	}
}

func runExtract(doc, term, outDir string, excerptMax int, ghostJSON bool, stdout, stderr io.Writer) int {
	sub, err := section.Find(doc, term)
	if err != nil {
		fmt.Fprintf(stderr, "ghostprep: no technique found matching %q\n", term)
		printSuggestions(doc, term, stderr)
		return exitFailure
	}

	art, err := article.Build(sub, section.EnclosingCategory(doc, sub.Start), article.Options{ExcerptMaxChars: excerptMax})
	if err != nil {
		fmt.Fprintf(stderr, "ghostprep: %v\n", err)
		return exitFailure
	}

	out, err := art.Render()
	if err != nil {
		fmt.Fprintf(stderr, "ghostprep: %v\n", err)
		return exitFailure
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "ghostprep: create output dir: %v\n", err)
		return exitFailure
	}
	path := filepath.Join(outDir, art.Filename())
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		fmt.Fprintf(stderr, "ghostprep: %v\n", err)
		return exitFailure
	}

	fmt.Fprintln(stdout, art.FullSection)
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "slug:     %s\n", art.Slug)
	fmt.Fprintf(stdout, "category: %s\n", art.Category)
	fmt.Fprintf(stdout, "wrote:    %s\n", path)

	if ghostJSON {
		importPath := filepath.Join(outDir, art.Slug+".ghost.json")
		f, err := os.Create(importPath)
		if err != nil {
			fmt.Fprintf(stderr, "ghostprep: %v\n", err)
			return exitFailure
		}
		defer f.Close()
		if err := ghost.WriteImport(f, ghost.BuildImport([]article.Article{art}, time.Now())); err != nil {
			fmt.Fprintf(stderr, "ghostprep: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "wrote:    %s\n", importPath)
	}

	return exitOK
}

func runExportAll(doc, outDir string, excerptMax int, stdout, stderr io.Writer) int {
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	exporter := export.NewExporter(log, excerptMax, export.NewStats(time.Hour))

	job := export.NewJob(doc, outDir)
	exporter.Run(context.Background(), job)

	snap := job.Snapshot()
	fmt.Fprintf(stdout, "exported %d/%d techniques to %s\n",
		snap.Progress.SectionsWritten, snap.Progress.TotalSections, outDir)
	for _, e := range snap.Progress.Errors {
		fmt.Fprintf(stderr, "ghostprep: %s\n", e)
	}
	if snap.Status != export.StatusCompleted {
		return exitFailure
	}
	return exitOK
}

// runVerify re-parses every article file in dir and checks its invariants,
// including that the filename still matches the front-matter slug.
func runVerify(dir string, stdout, stderr io.Writer) int {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		fmt.Fprintf(stderr, "ghostprep: %v\n", err)
		return exitFailure
	}
	if len(paths) == 0 {
		fmt.Fprintf(stderr, "ghostprep: no article files in %s\n", dir)
		return exitFailure
	}

	bad := 0
	for _, path := range paths {
		if err := verifyFile(path); err != nil {
			fmt.Fprintf(stderr, "ghostprep: %s: %v\n", filepath.Base(path), err)
			bad++
		}
	}

	fmt.Fprintf(stdout, "verified %d/%d articles\n", len(paths)-bad, len(paths))
	if bad > 0 {
		return exitFailure
	}
	return exitOK
}

func verifyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	art, err := article.Parse(f)
	if err != nil {
		return err
	}
	if err := art.Validate(); err != nil {
		return err
	}
	if want := art.Filename(); want != filepath.Base(path) {
		return fmt.Errorf("filename does not match slug, want %s", want)
	}
	return nil
}

func printSuggestions(doc, term string, stderr io.Writer) {
	idx, err := suggest.NewTitleIndex(section.Titles(doc))
	if err != nil {
		return
	}
	defer idx.Close()

	titles, err := idx.Suggest(term, 5)
	if err != nil || len(titles) == 0 {
		return
	}
	fmt.Fprintln(stderr, "did you mean:")
	for _, title := range titles {
		fmt.Fprintf(stderr, "  %s\n", title)
	}
}
