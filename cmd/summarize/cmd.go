package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"smartvision/internal/config"
	"smartvision/internal/handler/http/summary"
	"smartvision/internal/infra/summarizer"
	sumUC "smartvision/internal/usecase/summarize"
)

const (
	outputText = "text"
	outputJSON = "json"

	msgTextRequired = "Text is required"
	msgTooShort     = "Text too short to summarize"
)

// errRejected means the input failed validation and the message was already written.
var errRejected = errors.New("input rejected")

// PageReader extracts the text of one PDF page.
type PageReader interface {
	PageText(path string, page int) (string, error)
}

type deps struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Pages  PageReader
	Logger *slog.Logger
}

type options struct {
	pdf        string
	page       int
	configFile string
	output     string
}

func newRootCmd(d deps) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "smartvision-summarize [file|-]",
		Short: "Summarize text with the extractive summarizer",
		Long: `Summarize plain text, read from a file or stdin, or one page of a PDF.

Examples:
  smartvision-summarize notes.txt
  cat notes.txt | smartvision-summarize
  smartvision-summarize --pdf report.pdf --page 3
  smartvision-summarize notes.txt --output json
  smartvision-summarize notes.txt --config summarizer.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, d, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "PDF file to read instead of text input")
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page of the PDF to summarize (1-based)")
	cmd.Flags().StringVar(&opts.configFile, "config", os.Getenv("SUMMARIZER_CONFIG_FILE"), "Summarizer YAML configuration")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "Output format: text or json")
	cmd.SetIn(d.Stdin)
	cmd.SetOut(d.Stdout)
	cmd.SetErr(d.Stderr)
	return cmd
}

func run(cmd *cobra.Command, d deps, opts *options, args []string) error {
	if opts.output != outputText && opts.output != outputJSON {
		return fmt.Errorf("invalid output format %q (must be %q or %q)", opts.output, outputText, outputJSON)
	}

	input, err := readInput(d, opts, args)
	if err != nil {
		return err
	}

	sumCfg, err := config.LoadSummarizerConfig(opts.configFile)
	if err != nil {
		return err
	}
	ext, err := summarizer.NewExtractive(sumCfg)
	if err != nil {
		return err
	}
	svc := &sumUC.Service{Summarizer: ext, Logger: d.Logger}

	res, err := svc.Summarize(cmd.Context(), input)
	if err != nil {
		return writeRejection(d.Stdout, opts.output, err)
	}

	if opts.output == outputJSON {
		return writeJSON(d.Stdout, summary.NewResultDTO(*res))
	}
	if _, err := fmt.Fprintln(d.Stdout, res.Summary); err != nil {
		return err
	}
	if res.Fallback() {
		fmt.Fprintf(d.Stderr, "warning: %s\n", res.ErrorMessage())
	}
	return nil
}

// readInput returns the text to summarize from the PDF page, the file argument or stdin.
func readInput(d deps, opts *options, args []string) (string, error) {
	if opts.pdf != "" {
		if len(args) > 0 {
			return "", errors.New("a file argument cannot be combined with --pdf")
		}
		if opts.page < 1 {
			return "", fmt.Errorf("invalid page %d (must be >= 1)", opts.page)
		}
		text, err := d.Pages.PageText(opts.pdf, opts.page)
		if err != nil {
			return "", fmt.Errorf("read page %d of %s: %w", opts.page, opts.pdf, err)
		}
		return text, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(d.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	// #nosec G304 -- the path is the user's own command-line argument
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

// writeRejection prints a validation failure. Too-short text is echoed back as
// its own summary, like the HTTP API does.
func writeRejection(w io.Writer, output string, err error) error {
	var tooShort *sumUC.TooShortError
	switch {
	case errors.Is(err, sumUC.ErrTextRequired):
		if output == outputJSON {
			_ = writeJSON(w, summary.ErrorResponse{Error: msgTextRequired})
		} else {
			fmt.Fprintln(w, msgTextRequired)
		}
	case errors.As(err, &tooShort):
		if output == outputJSON {
			_ = writeJSON(w, summary.ErrorResponse{Error: msgTooShort, Summary: &tooShort.Text})
		} else {
			fmt.Fprintln(w, tooShort.Text)
		}
	default:
		return err
	}
	return errRejected
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
