// Package main provides a CLI that runs the book extraction pipeline on a file.
// Usage: book-extract [--config config.yaml] [--output json|text] [--timeout 10m] [FILE]
//
// The book is read from FILE, or from stdin when FILE is omitted or "-".
// Logs go to stderr so the result on stdout can be piped.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"book-insight/internal/bootstrap"
	"book-insight/internal/config"
	"book-insight/internal/domain/entity"
	hbook "book-insight/internal/handler/http/book"
	"book-insight/internal/handler/http/requestid"
	"book-insight/internal/observability/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("book-extract", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath   string
		outputFormat string
		timeout      time.Duration
	)
	fs.StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	fs.StringVar(&outputFormat, "output", "json", "Output format: json or text")
	fs.DurationVar(&timeout, "timeout", 10*time.Minute, "Maximum time for the whole extraction")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if outputFormat != "json" && outputFormat != "text" {
		fmt.Fprintf(stderr, "Error: Invalid output format '%s' (must be 'json' or 'text')\n", outputFormat)
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "Error: at most one input file can be given")
		return 2
	}

	logger := logging.New(stderr, logging.ParseLevel(os.Getenv("LOG_LEVEL")), logging.FormatText)
	slog.SetDefault(logger)

	bookText, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := cfg.RequireAPIKeys(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	components, err := bootstrap.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize backends: %v\n", err)
		return 1
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Warn("failed to close backends", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithTimeout(requestid.WithRequestID(ctx, requestid.New()), timeout)
	defer cancel()

	out, err := components.Service.Extract(ctx, bookText)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidRequest) {
			fmt.Fprintln(stderr, "Error: Book text is required")
			return 1
		}
		fmt.Fprintf(stderr, "Error: extraction failed: %v\n", err)
		return 1
	}

	if outputFormat == "text" {
		printText(stdout, out)
		return 0
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(hbook.NewExtractResponse(out)); err != nil {
		fmt.Fprintf(stderr, "Error: failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	// #nosec G304 -- the path is the operator's own command line argument
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printText(w io.Writer, x *entity.Extraction) {
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "=======")
	fmt.Fprintln(w, x.Summary)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Characters (%d)\n", len(x.Characters))
	fmt.Fprintln(w, "==============")
	for _, c := range x.Characters {
		fmt.Fprintf(w, "%-24s %d occurrence(s), first at %d\n", c.Name, len(c.Occurrences), c.Occurrences[0].Start)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d chunk(s), %d fallback(s)\n", x.Stats.Chunks, x.Stats.Fallbacks)
}
