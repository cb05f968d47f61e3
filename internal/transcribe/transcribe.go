// Package transcribe provides the speech-to-text stage of the question/answer pipeline.
package transcribe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"voiceqa/internal/command"
	"voiceqa/internal/domain"
)

// DefaultSilenceMarker is the tag the transcriber emits for a silent segment.
const DefaultSilenceMarker = "[BLANK_AUDIO]"

// FilterSilence drops every line containing marker and joins the rest,
// each terminated by a newline.
func FilterSilence(raw, marker string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if marker != "" && strings.Contains(line, marker) {
			continue
		}
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func readTranscript(path, marker string) (domain.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	raw := string(data)
	return domain.Transcript{Raw: raw, Text: FilterSilence(raw, marker)}, nil
}

// FileTranscriber reads a transcript that was produced ahead of time.
type FileTranscriber struct {
	Path          string
	SilenceMarker string
}

func (t FileTranscriber) Transcribe(ctx context.Context, _ domain.Recording) (domain.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transcript{}, err
	}
	return readTranscript(t.Path, t.SilenceMarker)
}

// CommandTranscriber runs an external speech-to-text program and reads the
// transcript it writes. Arguments may use the {input} and {output}
// placeholders; Output may use {input} too, so "{input}.txt" follows the recording.
type CommandTranscriber struct {
	Command       string
	Args          []string
	Output        string
	SilenceMarker string

	runner *command.Runner
	logger *logrus.Entry
}

// NewCommandTranscriber returns a transcriber that runs cmd.
func NewCommandTranscriber(cmd string, args []string, output, marker string, logger *logrus.Entry) *CommandTranscriber {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("component", "transcribe")
	return &CommandTranscriber{
		Command:       cmd,
		Args:          args,
		Output:        output,
		SilenceMarker: marker,
		runner:        command.NewRunner(logger),
		logger:        logger,
	}
}

func (t *CommandTranscriber) Transcribe(ctx context.Context, rec domain.Recording) (domain.Transcript, error) {
	output := command.Expand([]string{t.Output}, map[string]string{"input": rec.Path})[0]
	vars := map[string]string{"input": rec.Path, "output": output}
	if err := t.runner.Run(ctx, t.Command, t.Args, vars); err != nil {
		return domain.Transcript{}, fmt.Errorf("transcribe audio: %w", err)
	}
	tr, err := readTranscript(output, t.SilenceMarker)
	if err != nil {
		return domain.Transcript{}, err
	}
	t.logger.WithField("chars", len(tr.Text)).Info("transcript ready")
	return tr, nil
}
