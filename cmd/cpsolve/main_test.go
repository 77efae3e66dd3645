package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokanprop/pkg/cp"
)

// execute runs the command line with args and returns stdout.
func execute(t *testing.T, args ...string) (string, *app, error) {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), a, err
}

func TestQueensCommand(t *testing.T) {
	out, a, err := execute(t, "queens", "--workers", "2", "4", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "queens 4: 2 solutions")
	assert.Contains(t, out, "queens 6: 4 solutions")
	assert.Contains(t, out, "completed=true")

	assert.Equal(t, 2, a.cfg.Workers)
	assert.Equal(t, 2.0, testutil.ToFloat64(a.metrics.Solutions.WithLabelValues("queens-4")))
	assert.Equal(t, 4.0, testutil.ToFloat64(a.metrics.Solutions.WithLabelValues("queens-6")))
}

func TestQueensCommandLimits(t *testing.T) {
	out, _, err := execute(t, "--max-solutions", "3", "queens", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "queens 8: 3 solutions")
	assert.Contains(t, out, "completed=false")
}

func TestQueensPortfolio(t *testing.T) {
	out, _, err := execute(t, "queens", "--portfolio", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "queens 8:")
	assert.Contains(t, out, "won with 1 solutions")
}

func TestQueensRejectsBadSize(t *testing.T) {
	for _, arg := range []string{"zero", "0", "-3"} {
		_, _, err := execute(t, "queens", "--", arg)
		assert.Error(t, err, arg)
	}
	_, _, err := execute(t, "queens")
	assert.Error(t, err)
}

func TestSendMoreCommand(t *testing.T) {
	out, _, err := execute(t, "sendmore")
	require.NoError(t, err)
	assert.Contains(t, out, "9567 + 1085 = 10652")
	assert.Contains(t, out, "#solutions: 1")
}

func TestMinimizeCommand(t *testing.T) {
	out, a, err := execute(t, "minimize")
	require.NoError(t, err)
	assert.Equal(t, "x = 10\nx = 8\nx = 6\nx = 4\nx = 2\nx = 0\nbest: 0 (optimal=true)\n", out)
	assert.Equal(t, 0.0, testutil.ToFloat64(a.metrics.Running.WithLabelValues("minimize")))

	out, _, err = execute(t, "minimize", "--min", "3", "--max", "9", "--step", "4")
	require.NoError(t, err)
	assert.Equal(t, "x = 9\nx = 5\nbest: 5 (optimal=true)\n", out)

	_, _, err = execute(t, "minimize", "--step", "0")
	assert.ErrorIs(t, err, cp.ErrInvalidArgument)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version: "+cp.Version)
	assert.Contains(t, out, "go_version:")
}

func TestConfigFileAndValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpsolve.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_solutions: 1\nworkers: 3\nlog_level: error\n"), 0o600))

	out, a, err := execute(t, "--config", path, "queens", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "queens 6: 1 solutions")
	assert.Equal(t, 3, a.cfg.Workers)

	_, _, err = execute(t, "--log-level", "loud", "version")
	assert.ErrorIs(t, err, cp.ErrInvalidArgument)
	_, _, err = execute(t, "--workers", "1000", "version")
	assert.ErrorIs(t, err, cp.ErrInvalidArgument)
}

func TestMetricsServer(t *testing.T) {
	_, a, err := execute(t, "--metrics-addr", "127.0.0.1:0", "minimize")
	require.NoError(t, err)
	require.NotNil(t, a.server)
}
