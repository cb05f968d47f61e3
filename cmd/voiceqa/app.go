package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"voiceqa/internal/capture"
	"voiceqa/internal/config"
	"voiceqa/internal/corpus"
	"voiceqa/internal/domain"
	"voiceqa/internal/evaluation"
	"voiceqa/internal/keywords"
	"voiceqa/internal/retrieval"
	"voiceqa/internal/service"
	"voiceqa/internal/text"
	"voiceqa/internal/transcribe"
)

func loadConfig(path string) (*config.AppConfig, error) {
	config.LoadEnv()
	var cfg *config.AppConfig
	var err error
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	if debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

func newEvaluator(cfg *config.AppConfig) (*evaluation.Evaluator, error) {
	return evaluation.NewEvaluator(text.NewTokenizer(cfg.Tokenizer.Fold()), cfg.Evaluation.Weights())
}

// evaluationKeywords falls back to the most frequent terms of the ideal answer.
func evaluationKeywords(cfg *config.AppConfig, log *logrus.Entry) []string {
	if len(cfg.Evaluation.Keywords) > 0 {
		return cfg.Evaluation.Keywords
	}
	tok := text.NewTokenizer(cfg.Tokenizer.Fold())
	kws := keywords.NewFrequencyExtractor(tok).Extract(cfg.Evaluation.IdealAnswer, cfg.Evaluation.MaxKeywords)
	log.WithField("keywords", strings.Join(kws, ",")).Info("keywords derived from ideal answer")
	return kws
}

func newCapturer(cfg config.CaptureConfig, log *logrus.Entry) domain.Capturer {
	format := capture.Format{SampleRate: cfg.SampleRate, Channels: cfg.Channels, BitDepth: cfg.BitDepth}
	if cfg.Type == "file" {
		return capture.FileCapturer{Path: cfg.Output, Format: format}
	}
	duration := time.Duration(cfg.DurationSecs) * time.Second
	return capture.NewCommandCapturer(cfg.Command, cfg.Args, cfg.Output, duration, format, log)
}

func newTranscriber(cfg config.TranscriberConfig, log *logrus.Entry) domain.Transcriber {
	if cfg.Type == "file" {
		return transcribe.FileTranscriber{Path: cfg.Output, SilenceMarker: cfg.SilenceMarker}
	}
	return transcribe.NewCommandTranscriber(cfg.Command, cfg.Args, cfg.Output, cfg.SilenceMarker, log)
}

// buildService loads the corpus and assembles the pipeline. Any failure
// here is a setup failure and ends the run.
func buildService(cfg *config.AppConfig, logger *logrus.Logger) (*service.QAService, error) {
	log := logrus.NewEntry(logger)
	order, err := corpus.ParseOrder(cfg.Corpus.Order)
	if err != nil {
		return nil, err
	}
	c, err := corpus.LoadFile(cfg.Corpus.Path, order)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"path":  cfg.Corpus.Path,
		"pairs": c.Len(),
		"order": order,
	}).Info("corpus loaded")

	tok := text.NewTokenizer(cfg.Tokenizer.Fold())
	ev, err := newEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	opts := service.Options{
		IdealAnswer: cfg.Evaluation.IdealAnswer,
		Keywords:    evaluationKeywords(cfg, log),
		Capturer:    newCapturer(cfg.Capture, log),
		Transcriber: newTranscriber(cfg.Transcriber, log),
	}
	return service.NewQAService(c, retrieval.NewRetriever(tok, log), ev, opts, log)
}

func printReport(r domain.Report) {
	fmt.Printf("Extracted Text:\n%s\n", strings.TrimRight(r.Transcript.Text, "\n"))
	fmt.Printf("Best Response (TF-IDF based): %s\n", r.Match.Pair.Response)
	fmt.Printf("Cosine Similarity Score (TF-IDF): %.4f\n", r.Match.Score)
	fmt.Printf("Response Evaluation Rating: %.4f\n", r.Spoken.Score)
	printEvaluation("  answer", r.Spoken)
	fmt.Printf("Retrieved Response Rating: %.4f\n", r.Retrieved.Score)
	printEvaluation("  retrieved", r.Retrieved)
}

func printEvaluation(label string, ev domain.Evaluation) {
	fmt.Printf("%s: keywords=%.2f length=%.2f matched=[%s] missing=[%s]\n",
		label, ev.MatchRatio, ev.LengthFactor, strings.Join(ev.Matched, " "), strings.Join(ev.Missing, " "))
}

func setup(cmd *cobra.Command) (*config.AppConfig, *logrus.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	if c, _ := cmd.Flags().GetString("corpus"); c != "" {
		cfg.Corpus.Path = c
	}
	debug, _ := cmd.Flags().GetBool("debug")
	return cfg, newLogger(cfg.Log, debug), nil
}
