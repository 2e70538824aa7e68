// Package main provides a CLI command for summarizing text or a PDF page offline.
// Usage: smartvision-summarize [file|-] [--pdf file --page N] [--config summarizer.yaml] [--output json]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"smartvision/internal/infra/pdftext"
	"smartvision/internal/observability/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(deps{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Pages:  pdftext.New(),
		Logger: logging.NewTextLogger(),
	})
	if err := cmd.ExecuteContext(ctx); err != nil {
		// 入力エラーはすでに出力済み
		if !errors.Is(err, errRejected) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
