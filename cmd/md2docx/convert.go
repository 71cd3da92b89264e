package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrWriteDocument    = errors.New("failed to write document")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input md2docx.Input) (*md2docx.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*md2docx.Converter)(nil)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if flags.version {
		fmt.Fprintln(env.Stdout, Version)
		return nil
	}

	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	// CLI flags win over config file values.
	mergeFlags(flags, cfg)

	if len(positionalArgs) == 0 {
		return ErrNoInput
	}
	inputPath := positionalArgs[0]

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files under %s", ErrNoInput, inputPath)
	}

	conv := md2docx.NewConverter(converterOptions(cfg)...)
	defer func() { _ = conv.Close() }()

	return convertFiles(ctx, files, conv, cfg, flags, env)
}

// converterOptions maps config values to library options.
func converterOptions(cfg *config.Config) []md2docx.Option {
	var opts []md2docx.Option
	if cfg.Diagram.TimeoutSeconds > 0 {
		opts = append(opts, md2docx.WithDiagramTimeout(time.Duration(cfg.Diagram.TimeoutSeconds)*time.Second))
	}
	if cfg.Diagram.Theme != 0 {
		opts = append(opts, md2docx.WithTheme(cfg.Diagram.Theme))
	}
	return opts
}

// mergeFlags overlays explicitly set CLI flags onto the loaded config.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if flags.document.creator != "" {
		cfg.Document.Creator = flags.document.creator
	}
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}
	if flags.diagram.theme != 0 {
		cfg.Diagram.Theme = flags.diagram.theme
	}
	if flags.diagram.timeout != 0 {
		cfg.Diagram.TimeoutSeconds = flags.diagram.timeout
	}
}

// convertFiles processes each discovered file sequentially and reports
// per-file results. The first error aborts the batch.
func convertFiles(ctx context.Context, files []FileToConvert, conv Converter, cfg *config.Config, flags *convertFlags, env *Environment) error {
	for _, file := range files {
		start := time.Now()

		markdown, err := os.ReadFile(file.InputPath) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrReadMarkdown, file.InputPath, err)
		}

		input := md2docx.Input{
			Markdown: string(markdown),
			BaseName: fileutil.BaseName(file.InputPath),
			Title:    cfg.Document.Title,
			Creator:  cfg.Document.Creator,
			Page: &md2docx.PageSettings{
				Size:        cfg.Page.Size,
				Orientation: cfg.Page.Orientation,
				Margin:      cfg.Page.Margin,
			},
		}

		result, err := conv.Convert(ctx, input)
		if err != nil {
			return fmt.Errorf("converting %s: %w", file.InputPath, err)
		}

		if dir := filepath.Dir(file.OutputPath); dir != "." {
			if err := os.MkdirAll(dir, dirPermissions); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrWriteDocument, file.OutputPath, err)
			}
		}
		if err := os.WriteFile(file.OutputPath, result.DOCX, filePermissions); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWriteDocument, file.OutputPath, err)
		}

		if !flags.common.quiet {
			if flags.common.verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%s)\n", file.InputPath, file.OutputPath, time.Since(start).Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "%s\n", file.OutputPath)
			}
		}
	}
	return nil
}

// discoverFiles finds all markdown files to convert.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".markdown" {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the DOCX output path for a markdown file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	name := fileutil.DocumentName(fileutil.BaseName(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if strings.HasSuffix(outputDir, "."+fileutil.DocumentExtension) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}
