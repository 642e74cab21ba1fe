package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"gitlab.com/slon/srmutex/bench"
)

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: map\nscenario: counter\ngoroutines: 2\niterations: 50\n"), 0o644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--config", path, "--variant", "fair", "--iterations", "3"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	var report bench.Report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	require.Equal(t, bench.VariantFair, report.Variant, "flag overrides file")
	require.Equal(t, 2, report.Goroutines, "file value kept when flag is not set")
	require.Equal(t, 6, report.Counter)
}

func TestCompareCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"compare", "--scenario", "upgrade", "--goroutines", "2", "--iterations", "40"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	var reports []bench.Report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &reports))
	require.Len(t, reports, len(bench.Variants))
	for _, r := range reports {
		require.Equal(t, 4, r.Counter, r.Variant)
	}
}

func TestRunCommandRejectsBadConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--variant", "spin"})
	require.Error(t, root.ExecuteContext(context.Background()))
}
