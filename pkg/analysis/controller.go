package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/biocircuits/boolnet/pkg/config"
	"github.com/biocircuits/boolnet/pkg/metrics"
	"github.com/biocircuits/boolnet/pkg/model"
)

// State is the controller's lifecycle phase.
type State int

const (
	StateInitial State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "INITIAL"
	case StateRunning:
		return "RUNNING"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// StopReason explains why the controller terminated.
type StopReason string

const (
	StopAcceptableQuality StopReason = "acceptable_quality"
	StopMaxIterations     StopReason = "max_iterations"
	StopAnalysisError     StopReason = "analysis_error"
)

// Outcome is the terminal result of a controller run: the stop reason, the
// final iteration record, and the full append-only history.
type Outcome struct {
	Reason  StopReason
	Final   *model.IterationRecord
	History []*model.IterationRecord
}

// ErrAlreadyRun marks a controller whose single run was already consumed.
var ErrAlreadyRun = errors.New("controller has already run")

// Controller drives the iterative analysis loop. Iterations run strictly
// sequentially; each pass gets a fresh PassState and its results are
// snapshotted into an IterationRecord that is never mutated afterwards.
type Controller struct {
	cfg     config.Config
	ordered []StageSpec
	logger  *slog.Logger
	metrics *metrics.Registry
	state   State
}

// NewController resolves the registry's stage order once and returns a
// single-use controller.
func NewController(cfg config.Config, registry *Registry, logger *slog.Logger, m *metrics.Registry) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ordered, err := registry.Ordered()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:     cfg,
		ordered: ordered,
		logger:  logger,
		metrics: m,
		state:   StateInitial,
	}, nil
}

// State returns the controller's current lifecycle phase.
func (c *Controller) State() State { return c.state }

// Run executes analysis passes until the score crosses the acceptance
// threshold, the iteration cap is reached, or a pass fails. Later passes run
// with a doubled sampling budget. The returned outcome always carries the
// complete history, including a failed final pass.
func (c *Controller) Run(ctx context.Context, nw *model.Network) (*Outcome, error) {
	if c.state != StateInitial {
		return nil, ErrAlreadyRun
	}
	c.state = StateRunning

	plan := model.AnalysisPlan{
		SamplingBudget:      c.cfg.SamplingBudget,
		ExhaustiveThreshold: c.cfg.ExhaustiveThreshold,
		StepLimit:           c.cfg.StepLimit,
		Seed:                c.cfg.Seed,
	}

	outcome := &Outcome{}
	for iteration := 1; iteration <= c.cfg.MaxIterations; iteration++ {
		record := c.runPass(ctx, nw, plan, iteration)
		outcome.History = append(outcome.History, record)
		outcome.Final = record

		if record.Err != nil {
			c.logger.Error("analysis pass failed",
				"network", nw.Name,
				"iteration", iteration,
				"error", record.Err,
			)
			outcome.Reason = StopAnalysisError
			break
		}

		score := record.Quality.Score
		c.logger.Info("analysis pass complete",
			"network", nw.Name,
			"iteration", iteration,
			"score", score,
			"issues", record.Quality.IssueCount,
			"attractors", len(record.Dynamics.Attractors),
		)

		if score >= c.cfg.AcceptanceThreshold {
			outcome.Reason = StopAcceptableQuality
			break
		}
		if iteration == c.cfg.MaxIterations {
			outcome.Reason = StopMaxIterations
			break
		}

		// Widen the search before the next pass.
		plan.SamplingBudget *= 2
	}

	c.state = StateDone
	if c.metrics != nil && outcome.Final != nil && outcome.Final.Quality != nil {
		c.metrics.RecordVerdict(outcome.Final.Quality.Score, len(outcome.History))
	}
	c.logger.Info("analysis finished",
		"network", nw.Name,
		"reason", string(outcome.Reason),
		"iterations", len(outcome.History),
	)
	return outcome, nil
}

// runPass executes every stage in order and snapshots the results. A stage
// failure aborts the pass; no partial quality assessment is recorded.
func (c *Controller) runPass(ctx context.Context, nw *model.Network, plan model.AnalysisPlan, iteration int) *model.IterationRecord {
	record := &model.IterationRecord{
		ID:        uuid.NewString(),
		Iteration: iteration,
		Plan:      plan,
		StartedAt: time.Now(),
	}

	pass := &PassState{Network: nw, Plan: plan}
	status := "ok"
	for _, stage := range c.ordered {
		if err := stage.Run(ctx, pass); err != nil {
			record.Err = fmt.Errorf("stage %s: %w", stage.Name, err)
			status = "error"
			break
		}
	}

	record.Elapsed = time.Since(record.StartedAt)
	record.Topology = pass.Topology
	record.Dynamics = pass.Dynamics
	record.Perturbation = pass.Perturbation
	if record.Err == nil {
		record.Quality = pass.Quality
	}

	if c.metrics != nil {
		c.metrics.RecordPass(status, record.Elapsed)
	}
	return record
}
