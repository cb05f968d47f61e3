// Package command runs the external recorder and speech-to-text programs.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner executes a program with placeholder substitution in its arguments.
type Runner struct {
	logger *logrus.Entry
}

func NewRunner(logger *logrus.Entry) *Runner {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Runner{logger: logger}
}

// Run starts name with args after replacing every "{key}" with vars[key],
// and waits for it to exit. A non-zero exit is an error carrying the
// program's stderr.
func (r *Runner) Run(ctx context.Context, name string, args []string, vars map[string]string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("no command configured")
	}
	expanded := Expand(args, vars)
	cmd := exec.CommandContext(ctx, name, expanded...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	log := r.logger.WithFields(logrus.Fields{"command": name, "args": expanded})
	log.Debug("running command")
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	log.WithField("elapsed", time.Since(start)).Info("command finished")
	return nil
}

// Expand replaces "{key}" placeholders in each argument in a single pass.
// Substituted values are not expanded again.
func Expand(args []string, vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	r := strings.NewReplacer(pairs...)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
