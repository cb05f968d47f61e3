package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"voiceqa/internal/text"
	"voiceqa/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "voiceqa",
	Short: "Match a spoken answer against a question/response corpus and score it",
	Long: `voiceqa records a spoken answer, transcribes it, finds the most similar
stored response by TF-IDF cosine similarity and scores the answer against an
ideal answer by keyword coverage and length.

Examples:
  voiceqa ask
  voiceqa query "Artificial Intelligence is my favourite subject"
  voiceqa evaluate --response "AI is my subject" --keyword artificial --keyword subject
  voiceqa tui`,
	SilenceUsage: true,
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Record, transcribe, retrieve and evaluate one answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		svc, err := buildService(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Printf("Question: %s\n", svc.Question())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		report, err := svc.Run(ctx)
		if err != nil {
			return err
		}
		printReport(report)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Retrieve and evaluate a typed answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		svc, err := buildService(cfg, logger)
		if err != nil {
			return err
		}
		report, err := svc.Answer(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Question: %s\n", report.Question)
		printReport(report)
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a response against an ideal answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		response, _ := cmd.Flags().GetString("response")
		ideal, _ := cmd.Flags().GetString("ideal")
		kws, _ := cmd.Flags().GetStringSlice("keyword")
		if ideal == "" {
			ideal = cfg.Evaluation.IdealAnswer
		}
		if len(kws) == 0 {
			kws = evaluationKeywords(cfg, logrus.NewEntry(logger))
		}
		ev, err := newEvaluator(cfg)
		if err != nil {
			return err
		}
		res, err := ev.Evaluate(response, ideal, kws)
		if err != nil {
			return err
		}
		fmt.Printf("Response Evaluation Rating: %.4f\n", res.Score)
		printEvaluation("  detail", res)
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Search the corpus interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("tui needs an interactive terminal")
		}
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		svc, err := buildService(cfg, logger)
		if err != nil {
			return err
		}
		// log lines would tear the alternate screen
		logger.SetOutput(io.Discard)
		_, err = tea.NewProgram(tui.New(svc, text.NewTokenizer(cfg.Tokenizer.Fold()), cfg.UI.TopK), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file (uses ./voiceqa.yaml or ~/.config/voiceqa/config.yaml if not provided)")
	rootCmd.PersistentFlags().String("corpus", "", "Path to the question/response file (overrides config)")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")

	evaluateCmd.Flags().StringP("response", "r", "", "Response text to score")
	evaluateCmd.Flags().StringP("ideal", "i", "", "Ideal answer (defaults to the configured one)")
	evaluateCmd.Flags().StringSliceP("keyword", "k", nil, "Required keyword, repeatable (defaults to the configured ones)")
	_ = evaluateCmd.MarkFlagRequired("response")

	rootCmd.AddCommand(askCmd, queryCmd, evaluateCmd, tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
