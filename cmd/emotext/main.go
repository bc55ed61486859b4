// Command emotext trains an emotion classifier on a CSV dataset and labels
// the texts given on the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tsawler/emotext"
	"github.com/tsawler/emotext/internal/config"
	"github.com/tsawler/emotext/internal/logging"
)

var demoTexts = []string{
	"I am so happy today!",
	"This is very sad news",
	"I'm extremely angry about this",
	"I feel scared and alone",
	"Just a normal day",
}

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	sentencesMode := flag.Bool("sentences", false, "classify each sentence of the input separately")
	flag.Parse()

	if err := run(*envFile, *sentencesMode, flag.Args()); err != nil {
		slog.Error("emotext failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(envFile string, sentencesMode bool, args []string) error {
	if err := config.LoadEnv(envFile); err != nil {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	logger := logging.Init(os.Stderr, cfg.LogLevel)
	cfg.Training.Logger = logger

	provider := emotext.NewDatasetProvider(cfg.DatasetPath, emotext.UsingProviderLogger(logger))
	detector, metrics, err := emotext.NewDetectorFromProvider(provider, cfg.Training, emotext.WithLogger(logger))
	if err != nil {
		return err
	}
	if metrics.TestSize > 0 {
		fmt.Printf("Hold-out evaluation (%d samples):\n%s\n", metrics.TestSize, metrics.Report)
	}

	texts := args
	if len(texts) == 0 {
		texts = demoTexts
	}

	if sentencesMode {
		for _, text := range texts {
			for _, s := range detector.AnalyzeSentences(text) {
				fmt.Printf("[%d:%d] %q -> %s (%.1f%%, %s confidence, %s)\n", s.Start, s.End, s.Text, s.Emotion, s.Confidence, s.Level(), s.Outcome)
			}
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	predictions, err := detector.PredictBatch(ctx, texts)
	if err != nil {
		return err
	}
	for i, p := range predictions {
		fmt.Printf("Text: %q\n", texts[i])
		fmt.Printf("Predicted emotion: %s (Confidence: %.1f%%, %s)\n\n", p.Emotion, p.Confidence, p.Level())
	}
	return nil
}
