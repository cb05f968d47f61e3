package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"voiceqa/internal/corpus"
	"voiceqa/internal/evaluation"
)

// CorpusConfig locates the question/response file and its iteration order.
type CorpusConfig struct {
	Path  string `yaml:"path"`
	Order string `yaml:"order"`
}

// TokenizerConfig holds the case policy. Lowercase defaults to true when omitted.
type TokenizerConfig struct {
	Lowercase *bool `yaml:"lowercase,omitempty"`
}

// Fold reports whether text is case-folded before tokenizing.
func (c TokenizerConfig) Fold() bool {
	return c.Lowercase == nil || *c.Lowercase
}

// EvaluationConfig holds the reference answer responses are scored against.
type EvaluationConfig struct {
	IdealAnswer   string   `yaml:"ideal_answer"`
	Keywords      []string `yaml:"keywords"`
	MaxKeywords   int      `yaml:"max_keywords"`
	KeywordWeight float64  `yaml:"keyword_weight"`
	LengthWeight  float64  `yaml:"length_weight"`
}

// Weights returns the configured score weights.
func (c EvaluationConfig) Weights() evaluation.Weights {
	return evaluation.Weights{Keywords: c.KeywordWeight, Length: c.LengthWeight}
}

// CaptureConfig selects and configures the recorder.
type CaptureConfig struct {
	Type         string   `yaml:"type"`
	Command      string   `yaml:"command"`
	Args         []string `yaml:"args"`
	Output       string   `yaml:"output"`
	DurationSecs int      `yaml:"duration_secs"`
	SampleRate   int      `yaml:"sample_rate"`
	Channels     int      `yaml:"channels"`
	BitDepth     int      `yaml:"bit_depth"`
}

// TranscriberConfig selects and configures the speech-to-text program.
type TranscriberConfig struct {
	Type          string   `yaml:"type"`
	Command       string   `yaml:"command"`
	Args          []string `yaml:"args"`
	Output        string   `yaml:"output"`
	SilenceMarker string   `yaml:"silence_marker"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UIConfig configures the interactive terminal.
type UIConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus      CorpusConfig      `yaml:"corpus"`
	Tokenizer   TokenizerConfig   `yaml:"tokenizer"`
	Evaluation  EvaluationConfig  `yaml:"evaluation"`
	Capture     CaptureConfig     `yaml:"capture"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Log         LogConfig         `yaml:"log"`
	UI          UIConfig          `yaml:"ui"`
}

// LoadEnv reads a .env file from the working directory if there is one.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./voiceqa.yaml first, then ~/.config/voiceqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/voiceqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "voiceqa.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the application cannot run with.
func (c *AppConfig) Validate() error {
	if c.Corpus.Path == "" {
		return errors.New("corpus.path is required")
	}
	if _, err := corpus.ParseOrder(c.Corpus.Order); err != nil {
		return err
	}
	if err := c.Evaluation.Weights().Validate(); err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}
	switch c.Capture.Type {
	case "command", "file":
	default:
		return fmt.Errorf("unknown capture type: %s", c.Capture.Type)
	}
	switch c.Transcriber.Type {
	case "command", "file":
	default:
		return fmt.Errorf("unknown transcriber type: %s", c.Transcriber.Type)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.Log.Format)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "voiceqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Corpus: CorpusConfig{Path: "nlp.txt", Order: string(corpus.Lexical)},
		Evaluation: EvaluationConfig{
			IdealAnswer: "Artificial Intelligence is my favourite subject.",
			Keywords:    []string{"artificial", "intelligence", "subject"},
		},
		Capture: CaptureConfig{
			Type:    "command",
			Command: "arecord",
			Args:    []string{"-q", "-f", "S16_LE", "-c", "1", "-r", "{rate}", "-d", "{duration}", "{output}"},
		},
		Transcriber: TranscriberConfig{
			Type:    "command",
			Command: "whisper-cli",
			Args:    []string{"-m", "models/ggml-base.en.bin", "-f", "{input}", "-otxt", "-of", "{input}"},
		},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus.Order == "" {
		cfg.Corpus.Order = string(corpus.Lexical)
	}
	if cfg.Evaluation.KeywordWeight == 0 && cfg.Evaluation.LengthWeight == 0 {
		cfg.Evaluation.KeywordWeight = evaluation.DefaultWeights.Keywords
		cfg.Evaluation.LengthWeight = evaluation.DefaultWeights.Length
	}
	if cfg.Evaluation.MaxKeywords == 0 {
		cfg.Evaluation.MaxKeywords = 3
	}
	if cfg.Capture.Type == "" {
		cfg.Capture.Type = "command"
	}
	if cfg.Capture.Output == "" {
		cfg.Capture.Output = "output.wav"
	}
	if cfg.Capture.DurationSecs == 0 {
		cfg.Capture.DurationSecs = 5
	}
	if cfg.Capture.SampleRate == 0 {
		cfg.Capture.SampleRate = 16000
	}
	if cfg.Capture.Channels == 0 {
		cfg.Capture.Channels = 1
	}
	if cfg.Capture.BitDepth == 0 {
		cfg.Capture.BitDepth = 16
	}
	if cfg.Transcriber.Type == "" {
		cfg.Transcriber.Type = "command"
	}
	if cfg.Transcriber.Output == "" {
		cfg.Transcriber.Output = "{input}.txt"
	}
	if cfg.Transcriber.SilenceMarker == "" {
		cfg.Transcriber.SilenceMarker = "[BLANK_AUDIO]"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.UI.TopK == 0 {
		cfg.UI.TopK = 10
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("VOICEQA_CORPUS"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("VOICEQA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
