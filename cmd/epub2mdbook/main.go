package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/epub2mdbook/internal/converter"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epub2mdbook [flags] <book.epub>",
		Short: "Convert an EPUB file to an mdBook source tree",
		Long: `epub2mdbook converts an EPUB ebook into an mdBook-compatible
directory: src/SUMMARY.md generated from the table of contents, one
Markdown file per XHTML chapter with internal links rewritten, all
other resources copied verbatim, and a minimal book.toml.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}

			p := converter.NewPipeline(opts)
			if err := p.Convert(); err != nil {
				return fmt.Errorf("conversion failed: %w", err)
			}

			opts.Logger.Info("conversion completed", "input", opts.InputPath)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", ".", "Output directory")
	cmd.Flags().Bool("flat", false, "Write into the output directory itself instead of a <book name> subdirectory")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	cmd.Flags().String("log-format", "text", "Log format: text, json")
	cmd.Flags().BoolP("verbose", "v", false, "Shorthand for --log-level debug")

	return cmd
}

// readCLIOptions validates flags and assembles the pipeline options.
func readCLIOptions(cmd *cobra.Command, args []string) (converter.ConvertOptions, error) {
	var opts converter.ConvertOptions
	opts.InputPath = args[0]
	opts.OutputDir, _ = cmd.Flags().GetString("output")
	opts.Flat, _ = cmd.Flags().GetBool("flat")

	level, _ := cmd.Flags().GetString("log-level")
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("--log-level must be one of debug, info, warn, error (got %q)", level)
	}

	format, _ := cmd.Flags().GetString("log-format")
	switch strings.ToLower(format) {
	case "text", "json":
	default:
		return opts, fmt.Errorf("--log-format must be one of text, json (got %q)", format)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}

	opts.Logger = buildLogger(os.Stderr, level, format)
	return opts, nil
}

// buildLogger constructs a leveled slog logger with a text or JSON handler.
func buildLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	hopts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
