package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"linksummary/internal/app"
	"linksummary/internal/config"
	"linksummary/internal/domain"
	"linksummary/internal/summary"
)

func main() {
	os.Exit(run())
}

func run() int {
	rawURL := flag.String("url", "", "URL of a web page, YouTube video or feed to summarize")
	verbose := flag.Bool("v", false, "log pipeline steps to stderr")
	flag.Parse()

	logOutput := io.Discard
	if *verbose {
		logOutput = os.Stderr
	}
	log := slog.New(slog.NewJSONHandler(logOutput, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	a, err := app.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		return 1
	}

	if *rawURL == "" && flag.NArg() > 0 {
		*rawURL = flag.Arg(0)
	}

	var result domain.Result

	err = newSpinner(os.Stderr, "Fetching and summarizing...").run(ctx, func() error {
		var summarizeErr error
		result, summarizeErr = a.Service.Summarize(ctx, domain.Request{
			URL:    *rawURL,
			APIKey: cfg.LLMAPIKey,
		})
		return summarizeErr
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, summary.UserMessage(err, app.ProviderName(cfg.LLMProvider)))
		return 1
	}

	printResult(os.Stdout, result)

	return 0
}

func printResult(w io.Writer, result domain.Result) {
	p := message.NewPrinter(language.English)

	if result.Notice != "" {
		fmt.Fprintf(w, "! %s\n\n", result.Notice)
	}

	fmt.Fprintln(w, result.Summary)
	fmt.Fprintln(w)
	p.Fprintf(w, "Documents: %d\nCharacters: %d\nStrategy: %s\nLoader: %s\n",
		result.Documents, result.Chars, result.Strategy, result.Loader)
}
