// Package capture provides the recording stage of the question/answer pipeline.
package capture

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"voiceqa/internal/command"
	"voiceqa/internal/domain"
)

// Format is the audio layout the transcriber expects.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is 16 kHz mono 16-bit PCM.
var DefaultFormat = Format{SampleRate: 16000, Channels: 1, BitDepth: 16}

const wavFormatPCM = 1

// Validate checks that path is a PCM WAV file in format f and describes it.
func Validate(path string, f Format) (domain.Recording, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Recording{}, fmt.Errorf("%w: %v", domain.ErrInvalidRecording, err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return domain.Recording{}, fmt.Errorf("%w: %s is not a wav file", domain.ErrInvalidRecording, path)
	}
	rec := domain.Recording{
		Path:       path,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	switch {
	case dec.WavAudioFormat != wavFormatPCM:
		return rec, fmt.Errorf("%w: audio format %d is not PCM", domain.ErrInvalidRecording, dec.WavAudioFormat)
	case f.SampleRate > 0 && rec.SampleRate != f.SampleRate:
		return rec, fmt.Errorf("%w: sample rate %d Hz, want %d Hz", domain.ErrInvalidRecording, rec.SampleRate, f.SampleRate)
	case f.Channels > 0 && rec.Channels != f.Channels:
		return rec, fmt.Errorf("%w: %d channels, want %d", domain.ErrInvalidRecording, rec.Channels, f.Channels)
	case f.BitDepth > 0 && rec.BitDepth != f.BitDepth:
		return rec, fmt.Errorf("%w: %d-bit samples, want %d-bit", domain.ErrInvalidRecording, rec.BitDepth, f.BitDepth)
	}
	if d, err := dec.Duration(); err == nil {
		rec.Duration = d
	}
	return rec, nil
}

// FileCapturer uses a recording that already exists on disk.
type FileCapturer struct {
	Path   string
	Format Format
}

func (c FileCapturer) Capture(ctx context.Context) (domain.Recording, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recording{}, err
	}
	return Validate(c.Path, c.Format)
}

// CommandCapturer runs an external recorder that writes a WAV file.
// Arguments may use the {output}, {duration} and {rate} placeholders.
type CommandCapturer struct {
	Command  string
	Args     []string
	Output   string
	Duration time.Duration
	Format   Format

	runner *command.Runner
	logger *logrus.Entry
}

// NewCommandCapturer returns a capturer that records through cmd.
func NewCommandCapturer(cmd string, args []string, output string, duration time.Duration, f Format, logger *logrus.Entry) *CommandCapturer {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("component", "capture")
	return &CommandCapturer{
		Command:  cmd,
		Args:     args,
		Output:   output,
		Duration: duration,
		Format:   f,
		runner:   command.NewRunner(logger),
		logger:   logger,
	}
}

func (c *CommandCapturer) Capture(ctx context.Context) (domain.Recording, error) {
	vars := map[string]string{
		"output":   c.Output,
		"duration": strconv.Itoa(int(c.Duration.Seconds())),
		"rate":     strconv.Itoa(c.Format.SampleRate),
	}
	c.logger.WithField("duration", c.Duration).Info("recording")
	if err := c.runner.Run(ctx, c.Command, c.Args, vars); err != nil {
		return domain.Recording{}, fmt.Errorf("record audio: %w", err)
	}
	rec, err := Validate(c.Output, c.Format)
	if err != nil {
		return domain.Recording{}, err
	}
	c.logger.WithFields(logrus.Fields{
		"path":     rec.Path,
		"rate":     rec.SampleRate,
		"duration": rec.Duration,
	}).Info("recording captured")
	return rec, nil
}
