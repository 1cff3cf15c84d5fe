// Package workout implements the session core: the phase state machine,
// the wall-clock session timer, per-set completion tracking, and the
// calorie estimator feeding finalized history records.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/gymflow/internal/models"
	"github.com/google/uuid"
)

// Catalog supplies and mutates the exercise catalog. Mutations persist
// immediately — mid-session weight/set adjustments edit the catalog itself,
// not a session snapshot.
type Catalog interface {
	ExercisesInGroup(ctx context.Context, group string) ([]models.Exercise, error)
	AdjustWeight(ctx context.Context, group, name string, delta int) (int, error)
	AdjustSetCount(ctx context.Context, group, name string, delta int) (int, error)
}

// History receives the single completed-workout record a session produces.
type History interface {
	InsertHistory(ctx context.Context, rec models.WorkoutHistory) error
}

// Settings records the last completed target group for catalog display.
type Settings interface {
	SetLastCompletedGroup(ctx context.Context, group string) error
}

// HealthSink mirrors workout summaries to an external health store.
// Calls are best-effort: a failure never blocks or rolls back a finalize.
type HealthSink interface {
	SaveWorkout(ctx context.Context, label string, durationSeconds int) error
}

var (
	ErrSessionOver     = errors.New("session already finished")
	ErrWrongPhase      = errors.New("operation not valid in current phase")
	ErrCardioPending   = errors.New("cardio decision pending")
	ErrNoCardioOffer   = errors.New("no cardio offer pending")
	ErrUnknownExercise = errors.New("exercise not in current phase")
)

// Result is the outcome of a finalized session.
type Result struct {
	Record      models.WorkoutHistory `json:"record"`
	TargetGroup string                `json:"targetGroup"`
}

// ToggleOutcome describes what a set toggle caused.
type ToggleOutcome struct {
	Completed     bool    `json:"completed"`
	Phase         Phase   `json:"phase"`
	CardioOffered bool    `json:"cardioOffered"`
	Result        *Result `json:"result,omitempty"`
}

// Config wires a Session's collaborators.
type Config struct {
	TargetGroup string
	Catalog     Catalog
	History     History
	Settings    Settings
	Health      HealthSink
	Log         *slog.Logger
	Clock       Clock // nil uses time.Now
}

// Session is one active workout: Stretch → Main → (cardio offer for
// strength groups) → [Cardio] → Done. One master timer spans all phases;
// exactly one history record is written, at finalize. There is a single
// session mutator (the interactive surface serializes calls), so Session
// does no locking of its own.
type Session struct {
	targetGroup string
	phase       Phase
	timer       *Timer
	tracker     *SetTracker

	exercises       []models.Exercise // current phase's list
	cardioOffered   bool
	phaseAnchorSec  int // master elapsed at start of current phase
	finalizeHistErr error

	catalog  Catalog
	history  History
	settings Settings
	health   HealthSink
	log      *slog.Logger
}

// NewSession creates a session for a target group. The session does not
// start timing until Begin.
func NewSession(cfg Config) (*Session, error) {
	if cfg.TargetGroup == "" {
		return nil, fmt.Errorf("target group is required")
	}
	if cfg.Catalog == nil || cfg.History == nil || cfg.Settings == nil || cfg.Health == nil {
		return nil, fmt.Errorf("catalog, history, settings, and health collaborators are required")
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		targetGroup: cfg.TargetGroup,
		phase:       PhaseStretch,
		timer:       StartTimer(cfg.Clock),
		tracker:     NewSetTracker(),
		catalog:     cfg.Catalog,
		history:     cfg.History,
		settings:    cfg.Settings,
		health:      cfg.Health,
		log:         log,
	}, nil
}

// Begin anchors the master timer and loads the stretch phase. An empty
// stretch catalog auto-advances straight to Main: a zero-exercise phase can
// never satisfy the completion predicate.
func (s *Session) Begin(ctx context.Context) (Phase, error) {
	stretch, err := s.catalog.ExercisesInGroup(ctx, StretchGroup)
	if err != nil {
		return s.phase, fmt.Errorf("loading stretch exercises: %w", err)
	}
	s.exercises = stretch

	if len(stretch) == 0 {
		s.log.Info("stretch catalog empty, skipping stretch phase", "group", s.targetGroup)
		if err := s.advanceToMain(ctx); err != nil {
			return s.phase, err
		}
	}
	return s.phase, nil
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// TargetGroup returns the group this session is working toward.
func (s *Session) TargetGroup() string { return s.targetGroup }

// StartedAt returns the session's wall-clock anchor.
func (s *Session) StartedAt() time.Time { return s.timer.StartedAt() }

// ElapsedSeconds returns master elapsed time, continuous across phases.
func (s *Session) ElapsedSeconds() int { return s.timer.ElapsedSeconds() }

// PhaseElapsedSeconds returns elapsed time within the current phase.
func (s *Session) PhaseElapsedSeconds() int {
	return s.timer.ElapsedSeconds() - s.phaseAnchorSec
}

// CardioOfferPending reports whether the session is waiting on the
// add-cardio/skip decision.
func (s *Session) CardioOfferPending() bool { return s.cardioOffered }

// Exercises returns the current phase's exercise list.
func (s *Session) Exercises() []models.Exercise {
	out := make([]models.Exercise, len(s.exercises))
	copy(out, s.exercises)
	return out
}

// IsSetComplete reports one set's completion state in the current phase.
func (s *Session) IsSetComplete(exercise string, set int) bool {
	return s.tracker.IsComplete(exercise, set)
}

// ToggleSet flips one set's completion state. Completing the last required
// set advances the phase: stretch rolls into main; main either finalizes
// (non-strength group) or raises the cardio offer (strength group).
func (s *Session) ToggleSet(ctx context.Context, exercise string, set int) (ToggleOutcome, error) {
	if s.phase == PhaseDone {
		return ToggleOutcome{}, ErrSessionOver
	}
	if s.phase == PhaseCardio {
		return ToggleOutcome{}, fmt.Errorf("%w: cardio has no sets", ErrWrongPhase)
	}
	if s.cardioOffered {
		return ToggleOutcome{}, ErrCardioPending
	}
	if err := s.validateSet(exercise, set); err != nil {
		return ToggleOutcome{}, err
	}

	completed := s.tracker.Toggle(exercise, set)
	out := ToggleOutcome{Completed: completed, Phase: s.phase}

	if !s.tracker.PhaseComplete(s.exercises) {
		return out, nil
	}

	switch s.phase {
	case PhaseStretch:
		if err := s.advanceToMain(ctx); err != nil {
			return out, err
		}
		out.Phase = s.phase
	case PhaseMain:
		if IsStrengthGroup(s.targetGroup) {
			s.cardioOffered = true
			out.CardioOffered = true
		} else {
			result, err := s.finalize(ctx, s.targetGroup)
			out.Phase = s.phase
			out.Result = result
			return out, err
		}
	}
	return out, nil
}

// SkipStretch advances to Main without completing the stretch phase.
func (s *Session) SkipStretch(ctx context.Context) error {
	if s.phase != PhaseStretch {
		return fmt.Errorf("%w: not in stretch phase", ErrWrongPhase)
	}
	return s.advanceToMain(ctx)
}

// AcceptCardio takes the cardio extension. The master timer keeps running;
// the phase anchor records where cardio began.
func (s *Session) AcceptCardio() error {
	if !s.cardioOffered {
		return ErrNoCardioOffer
	}
	s.cardioOffered = false
	s.phase = PhaseCardio
	s.phaseAnchorSec = s.timer.ElapsedSeconds()
	s.tracker.Reset()
	return nil
}

// DeclineCardio skips the cardio extension and finalizes with the plain
// target-group label.
func (s *Session) DeclineCardio(ctx context.Context) (*Result, error) {
	if !s.cardioOffered {
		return nil, ErrNoCardioOffer
	}
	s.cardioOffered = false
	return s.finalize(ctx, s.targetGroup)
}

// EndCardio ends the cardio phase and finalizes with the composite label.
// The full session duration (stretch + main + cardio) is recorded, and the
// composite label makes the calorie estimator apply the cardio rate to all
// of it.
func (s *Session) EndCardio(ctx context.Context) (*Result, error) {
	if s.phase != PhaseCardio {
		return nil, fmt.Errorf("%w: not in cardio phase", ErrWrongPhase)
	}
	return s.finalize(ctx, s.targetGroup+CardioSuffix)
}

// Abandon discards the session silently: no history record, no health-sink
// call. Safe to call at any point before finalize.
func (s *Session) Abandon() {
	if s.phase == PhaseDone {
		return
	}
	s.phase = PhaseDone
	s.cardioOffered = false
	s.tracker.Reset()
	s.exercises = nil
	s.log.Info("session abandoned", "group", s.targetGroup, "elapsed_sec", s.timer.ElapsedSeconds())
}

// AdjustWeight changes an exercise's weight through the catalog and
// refreshes the phase list when it is the one on display.
func (s *Session) AdjustWeight(ctx context.Context, group, name string, delta int) (int, error) {
	weight, err := s.catalog.AdjustWeight(ctx, group, name, delta)
	if err != nil {
		return 0, err
	}
	if err := s.refreshIfCurrent(ctx, group); err != nil {
		return weight, err
	}
	return weight, nil
}

// AdjustSetCount changes an exercise's set count through the catalog. When
// the count shrinks for an exercise in the current phase, completed keys at
// or above the new count are dropped so stale toggles cannot count toward
// the smaller requirement.
func (s *Session) AdjustSetCount(ctx context.Context, group, name string, delta int) (int, error) {
	sets, err := s.catalog.AdjustSetCount(ctx, group, name, delta)
	if err != nil {
		return 0, err
	}
	if delta < 0 && group == s.currentGroup() {
		s.tracker.DropSetsAtOrAbove(name, sets)
	}
	if err := s.refreshIfCurrent(ctx, group); err != nil {
		return sets, err
	}
	return sets, nil
}

func (s *Session) advanceToMain(ctx context.Context) error {
	main, err := s.catalog.ExercisesInGroup(ctx, s.targetGroup)
	if err != nil {
		return fmt.Errorf("loading exercises for %s: %w", s.targetGroup, err)
	}
	s.phase = PhaseMain
	s.phaseAnchorSec = s.timer.ElapsedSeconds()
	s.tracker.Reset()
	s.exercises = main
	return nil
}

// finalize is the shared terminal path: estimate calories for the finalized
// label, write the single history record, record the last completed group,
// and kick off the detached health-sink submission. The history write error
// is returned to the caller (the session still ends), the rest are only
// logged.
func (s *Session) finalize(ctx context.Context, label string) (*Result, error) {
	duration := s.timer.ElapsedSeconds()
	calories := EstimateCalories(label, duration)

	rec := models.WorkoutHistory{
		ID:             uuid.NewString(),
		Group:          label,
		Date:           time.Now(),
		TimeElapsed:    duration,
		CaloriesBurned: &calories,
	}

	histErr := s.history.InsertHistory(ctx, rec)
	if histErr != nil {
		s.log.Error("history write failed", "group", label, "error", histErr)
		histErr = fmt.Errorf("saving history: %w", histErr)
	}

	if err := s.settings.SetLastCompletedGroup(ctx, s.targetGroup); err != nil {
		s.log.Error("recording last completed group failed", "group", s.targetGroup, "error", err)
	}

	s.submitToHealthSink(label, duration)

	s.phase = PhaseDone
	s.tracker.Reset()
	s.exercises = nil

	s.log.Info("session finalized",
		"group", label,
		"duration_sec", duration,
		"calories", calories,
	)
	return &Result{Record: rec, TargetGroup: s.targetGroup}, histErr
}

// submitToHealthSink sends the summary on a detached goroutine. The result
// is observed only for logging; finalize never waits on it.
func (s *Session) submitToHealthSink(label string, durationSec int) {
	log := s.log
	sink := s.health
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := sink.SaveWorkout(ctx, label, durationSec); err != nil {
			log.Warn("health sink save failed", "group", label, "error", err)
			return
		}
		log.Info("workout mirrored to health sink", "group", label, "duration_sec", durationSec)
	}()
}

func (s *Session) currentGroup() string {
	if s.phase == PhaseStretch {
		return StretchGroup
	}
	return s.targetGroup
}

func (s *Session) validateSet(exercise string, set int) error {
	for _, ex := range s.exercises {
		if ex.Name == exercise {
			if set < 0 || set >= ex.NumSets {
				return fmt.Errorf("set %d out of range for %s (%d sets)", set, exercise, ex.NumSets)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownExercise, exercise)
}

func (s *Session) refreshIfCurrent(ctx context.Context, group string) error {
	if s.phase == PhaseDone || group != s.currentGroup() {
		return nil
	}
	exs, err := s.catalog.ExercisesInGroup(ctx, group)
	if err != nil {
		return fmt.Errorf("refreshing exercises: %w", err)
	}
	s.exercises = exs
	return nil
}
