// Package bench drives recursive locks through contention scenarios and
// checks that no update got lost.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.com/slon/srmutex/gate"
	"gitlab.com/slon/srmutex/srmutex"
)

// ErrLostUpdate is returned when the final counter does not match the
// number of completed increments.
var ErrLostUpdate = errors.New("bench: lost update")

// Report is the outcome of one run.
type Report struct {
	RunID      string        `yaml:"run_id"`
	Variant    string        `yaml:"variant"`
	Gate       string        `yaml:"gate"`
	Scenario   string        `yaml:"scenario"`
	Goroutines int           `yaml:"goroutines"`
	Iterations int           `yaml:"iterations"`
	Counter    int           `yaml:"counter"`
	Expected   int           `yaml:"expected"`
	Elapsed    time.Duration `yaml:"-"`
	Seconds    float64       `yaml:"seconds"`
}

// Runner executes benchmark runs.
type Runner struct {
	clock   clockwork.Clock
	log     *zap.Logger
	metrics *srmutex.Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the clock used to time runs.
func WithClock(c clockwork.Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithLogger sets the logger handed to the locks under test.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// WithMetrics instruments every recursive lock the runner builds.
func WithMetrics(m *srmutex.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates *Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		clock: clockwork.NewRealClock(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewLock builds the lock cfg asks for. cfg must be validated.
func (r *Runner) NewLock(cfg Config) srmutex.RecursiveSharedLock {
	opts := []srmutex.Option{
		srmutex.WithName(cfg.Variant),
		srmutex.WithLogger(r.log),
	}
	if cfg.Gate == GateChan {
		opts = append(opts, srmutex.WithGate(gate.NewChan()))
	}

	switch cfg.Variant {
	case VariantGlobal:
		return srmutex.NewGlobal(opts...)
	case VariantFair:
		return srmutex.NewFair(opts...)
	case VariantRWMutex:
		return &baseline{}
	default:
		return srmutex.New(opts...)
	}
}

// Run executes cfg and verifies the final counter.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := scenarios[cfg.Scenario]

	lock := r.NewLock(cfg)
	bind := func(fn func()) { fn() }
	if g, ok := lock.(*srmutex.GlobalMutex); ok {
		bind = g.Run
	}
	if _, ok := lock.(upgrader); !ok && r.metrics != nil {
		lock = srmutex.Instrument(lock, cfg.Variant, r.metrics, r.clock)
	}

	c := &counter{}
	start := r.clock.Now()

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Goroutines; w++ {
		eg.Go(func() error {
			var err error
			bind(func() {
				for i := 0; i < cfg.Iterations; i++ {
					if err = ctx.Err(); err != nil {
						return
					}
					s.step(lock, c, i, cfg)
				}
			})
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	elapsed := r.clock.Since(start)
	runID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:      runID.String(),
		Variant:    cfg.Variant,
		Gate:       cfg.Gate,
		Scenario:   cfg.Scenario,
		Goroutines: cfg.Goroutines,
		Iterations: cfg.Iterations,
		Counter:    c.n,
		Expected:   s.expected(cfg),
		Elapsed:    elapsed,
		Seconds:    elapsed.Seconds(),
	}
	r.log.Info("run finished",
		zap.String("run_id", report.RunID),
		zap.String("variant", cfg.Variant),
		zap.String("scenario", cfg.Scenario),
		zap.Duration("elapsed", elapsed),
	)

	if report.Counter != report.Expected {
		return report, fmt.Errorf("%w: counter %d, expected %d", ErrLostUpdate, report.Counter, report.Expected)
	}
	return report, nil
}

// Compare runs cfg once per variant that supports its scenario.
func (r *Runner) Compare(ctx context.Context, cfg Config) ([]*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var reports []*Report
	for _, v := range Variants {
		run := cfg
		run.Variant = v
		if err := run.Validate(); err != nil {
			r.log.Debug("variant skipped", zap.String("variant", v), zap.Error(err))
			continue
		}
		report, err := r.Run(ctx, run)
		if err != nil {
			return reports, fmt.Errorf("variant %s: %w", v, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
