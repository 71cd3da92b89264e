package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across invocations.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds document metadata flags.
type documentFlags struct {
	title   string
	creator string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// diagramFlags holds diagram rendering flags.
type diagramFlags struct {
	theme   int64
	timeout int
}

// convertFlags holds all CLI flags.
type convertFlags struct {
	common   commonFlags
	output   string
	document documentFlags
	page     pageFlags
	diagram  diagramFlags
	version  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addDocumentFlags adds document metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (\"\" = auto from first heading)")
	fs.StringVar(&f.creator, "creator", "", "document creator name")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addDiagramFlags adds diagram rendering flags to a FlagSet.
func addDiagramFlags(fs *flag.FlagSet, f *diagramFlags) {
	fs.Int64Var(&f.theme, "theme", 0, "diagram theme id")
	fs.IntVarP(&f.timeout, "timeout", "t", 0, "per-diagram render timeout in seconds")
}

// parseFlags parses CLI flags from args and returns positional arguments.
func parseFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("md2docx", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addPageFlags(fs, &f.page)
	addDiagramFlags(fs, &f.diagram)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// printUsage writes CLI usage to w.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `md2docx converts markdown files to DOCX documents.

Usage:
  md2docx [flags] <input.md | directory>

Flags:
  -o, --output string       output file or directory
  -c, --config string       config file path
      --title string        document title ("" = auto from first heading)
      --creator string      document creator name
  -p, --page-size string    page size: letter, a4, legal (default: letter)
      --orientation string  page orientation: portrait, landscape
      --margin float        page margin in inches (0.25-3.0)
      --theme int           diagram theme id
  -t, --timeout int         per-diagram render timeout in seconds
  -q, --quiet               only show errors
  -v, --verbose             show detailed progress
      --version             print version and exit
`)
}
