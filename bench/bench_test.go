package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gitlab.com/slon/srmutex/srmutex"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunScenarios(t *testing.T) {
	for _, tc := range []struct {
		cfg      Config
		expected int
	}{
		{cfg: Config{Scenario: ScenarioCounter, Goroutines: 3, Iterations: 10}, expected: 30},
		{cfg: Config{Scenario: ScenarioFuzz, Goroutines: 20, Iterations: 1000}, expected: 20000},
		{cfg: Config{Scenario: ScenarioUpgrade, Goroutines: 4, Iterations: 100, UpgradeEvery: 20}, expected: 20},
		{cfg: Config{Scenario: ScenarioTryLock, Goroutines: 3, Iterations: 100}, expected: 300},
	} {
		for _, variant := range Variants {
			for _, g := range []string{GateNative, GateChan} {
				cfg := tc.cfg
				cfg.Variant = variant
				cfg.Gate = g
				if cfg.Validate() != nil {
					continue
				}

				t.Run(cfg.Scenario+"/"+variant+"/"+g, func(t *testing.T) {
					report, err := NewRunner().Run(context.Background(), cfg)
					require.NoError(t, err)
					require.Equal(t, tc.expected, report.Counter)
					require.Equal(t, tc.expected, report.Expected)
					require.NotEmpty(t, report.RunID)
				})
			}
		}
	}
}

func TestRunElapsed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	report, err := NewRunner(WithClock(clock)).Run(context.Background(), Config{
		Scenario:   ScenarioCounter,
		Goroutines: 2,
		Iterations: 5,
	})
	require.NoError(t, err)
	require.Zero(t, report.Elapsed, "fake clock never moves on its own")
	require.Equal(t, VariantMap, report.Variant)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner().Run(ctx, Config{Scenario: ScenarioCounter})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunInstrumented(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRunner(WithMetrics(srmutex.NewMetrics(reg)))

	_, err := r.Run(context.Background(), Config{
		Variant:    VariantFair,
		Scenario:   ScenarioCounter,
		Goroutines: 2,
		Iterations: 10,
	})
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "srmutex_acquisitions_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestCompareSkipsNonReentrantBaseline(t *testing.T) {
	reports, err := NewRunner().Compare(context.Background(), Config{
		Scenario:   ScenarioFuzz,
		Goroutines: 4,
		Iterations: 50,
	})
	require.NoError(t, err)

	var got []string
	for _, r := range reports {
		got = append(got, r.Variant)
	}
	require.Equal(t, []string{VariantGlobal, VariantMap, VariantFair}, got)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name  string
		cfg   Config
		isErr bool
	}{
		{name: "defaults", cfg: Config{}},
		{name: "unknown variant", cfg: Config{Variant: "spin"}, isErr: true},
		{name: "unknown gate", cfg: Config{Gate: "futex"}, isErr: true},
		{name: "unknown scenario", cfg: Config{Scenario: "chaos"}, isErr: true},
		{name: "baseline fuzz", cfg: Config{Variant: VariantRWMutex, Scenario: ScenarioFuzz}, isErr: true},
		{name: "baseline upgrade", cfg: Config{Variant: VariantRWMutex, Scenario: ScenarioUpgrade}},
		{name: "negative", cfg: Config{Goroutines: -1}, isErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.isErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	negative := Config{Iterations: -5}
	require.ErrorContains(t, negative.Validate(), "must not be negative")

	zero := Config{Iterations: 0}
	require.NoError(t, zero.Validate(), "zero means the default")
	require.Equal(t, 1000, zero.Iterations)

	cfg := Config{}
	require.NoError(t, cfg.Validate())
	require.Equal(t, Config{
		Variant:      VariantMap,
		Gate:         GateNative,
		Scenario:     ScenarioFuzz,
		Goroutines:   20,
		Iterations:   1000,
		UpgradeEvery: 20,
	}, cfg)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: fair\nscenario: upgrade\ngoroutines: 4\nupgrade_every: 5\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{Variant: VariantFair, Scenario: ScenarioUpgrade, Goroutines: 4, UpgradeEvery: 5}, cfg)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	cfg, err = LoadConfig(empty)
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("threads: 4\n"), 0o644))
	_, err = LoadConfig(bad)
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
