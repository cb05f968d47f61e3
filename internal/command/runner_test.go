package command

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return logrus.NewEntry(l)
}

func TestExpand(t *testing.T) {
	got := Expand(
		[]string{"-f", "{input}", "-of", "{output}", "{missing}", "plain"},
		map[string]string{"input": "in.wav", "output": "out"},
	)
	assert.Equal(t, []string{"-f", "in.wav", "-of", "out", "{missing}", "plain"}, got)
	assert.Empty(t, Expand(nil, nil))
}

func TestExpandDoesNotReexpandValues(t *testing.T) {
	vars := map[string]string{"input": "/tmp/{output}.wav", "output": "out", "rate": "16000"}
	for i := 0; i < 50; i++ {
		got := Expand([]string{"{input}", "-r", "{rate}", "{output}"}, vars)
		require.Equal(t, []string{"/tmp/{output}.wav", "-r", "16000", "out"}, got)
	}
}

func TestRun(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	r := NewRunner(quietLogger())
	out := filepath.Join(t.TempDir(), "out.txt")

	err = r.Run(context.Background(), sh, []string{"-c", "printf hello > {output}"}, map[string]string{"output": out})
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = r.Run(context.Background(), sh, []string{"-c", "echo broken >&2; exit 3"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRunNoCommand(t *testing.T) {
	assert.Error(t, NewRunner(nil).Run(context.Background(), " ", nil, nil))
}

func TestRunCancelled(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewRunner(quietLogger()).Run(ctx, sh, []string{"-c", "sleep 5"}, nil))
}
