// Package service implements the turn pipeline: intent routing, pattern
// escalation, task planning with approval interrupts, parallel environment
// and cognition passes, the dopamine economy, and response synthesis.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Strob0t/NeuroFlow/internal/adapter/otel"
	"github.com/Strob0t/NeuroFlow/internal/config"
	"github.com/Strob0t/NeuroFlow/internal/domain/cognitive"
	"github.com/Strob0t/NeuroFlow/internal/domain/pattern"
	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/port/broadcast"
	"github.com/Strob0t/NeuroFlow/internal/port/cache"
	"github.com/Strob0t/NeuroFlow/internal/port/history"
	"github.com/Strob0t/NeuroFlow/internal/port/textgen"
	"github.com/Strob0t/NeuroFlow/internal/port/vectorstore"
)

// ErrTurnPending is returned when a new turn arrives while a previous turn is
// suspended at the approval gate.
var ErrTurnPending = errors.New("turn awaiting approval")

// ErrNoPendingTurn is returned by Resume when nothing is suspended for the
// session.
var ErrNoPendingTurn = errors.New("no turn awaiting approval")

// apologyResponse is returned on terminal pipeline failure. The session state
// is left exactly as it was before the turn.
const apologyResponse = "⚠️ Something went wrong on my end. Your session is safe — give it another go in a moment."

// cacheTTL bounds how long similarity and history lookups are reused.
const cacheTTL = 5 * time.Minute

// Deps bundles the engine's optional collaborators. Any nil field degrades
// that concern gracefully instead of failing turns.
type Deps struct {
	Vectors vectorstore.Store
	History history.Store
	Cache   cache.Cache
	Events  broadcast.Broadcaster
	Metrics *otel.Metrics
	Scorer  *cognitive.Scorer

	// Test seams. Nil means wall clock and a time-seeded source.
	Now  func() time.Time
	Rand *rand.Rand
}

// Engine drives one conversational turn through the node pipeline. Turns on
// the same session are serialized; turns on different sessions run
// concurrently.
type Engine struct {
	cfg     config.Engine
	gen     textgen.Generator
	vectors vectorstore.Store
	hist    history.Store
	cache   cache.Cache
	events  broadcast.Broadcaster
	mtr     *otel.Metrics
	scorer  *cognitive.Scorer
	log     *slog.Logger
	now     func() time.Time

	// rng feeds plan repair and reward scheduling. Guarded because turns on
	// different sessions run concurrently.
	rngMu sync.Mutex
	rng   *rand.Rand

	checkpoints *checkpointStore

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry serializes turns per session and carries the committed state.
type sessionEntry struct {
	mu        sync.Mutex
	state     *session.State
	suspended bool
}

// NewEngine creates the turn engine.
func NewEngine(cfg config.Engine, gen textgen.Generator, deps Deps, log *slog.Logger) *Engine {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = cognitive.NewScorer()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}
	return &Engine{
		cfg:         cfg,
		gen:         gen,
		vectors:     deps.Vectors,
		hist:        deps.History,
		cache:       deps.Cache,
		events:      deps.Events,
		mtr:         deps.Metrics,
		scorer:      scorer,
		log:         log,
		now:         now,
		rng:         rng,
		checkpoints: newCheckpointStore(),
		sessions:    make(map[string]*sessionEntry),
	}
}

// TurnResult is the outcome of one pipeline pass.
type TurnResult struct {
	SessionID       string         `json:"session_id"`
	Intent          session.Intent `json:"intent"`
	Response        string         `json:"response"`
	PendingApproval bool           `json:"pending_approval"`
	QualityScore    float64        `json:"quality_score"`
	State           session.State  `json:"state"`
}

// Turn runs one user message through the pipeline. If the planned task trips
// the approval gate the turn suspends and Resume must be called to continue.
func (e *Engine) Turn(ctx context.Context, sessionID, input string) (*TurnResult, error) {
	entry := e.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.suspended {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrTurnPending)
	}

	ctx, cancel := context.WithTimeout(ctx, e.turnTimeout())
	defer cancel()

	ctx, span := otel.StartTurnSpan(ctx, sessionID, "")
	defer span.End()
	if e.mtr != nil {
		e.mtr.TurnsStarted.Add(ctx, 1)
	}
	e.publish(ctx, broadcast.EventTurnStarted, map[string]any{"session_id": sessionID})
	started := e.now()

	// The turn mutates a clone. Committed state only changes when the turn
	// completes or suspends, so a terminal failure leaves the session intact.
	work, err := cloneState(entry.state)
	if err != nil {
		return nil, fmt.Errorf("clone session state: %w", err)
	}

	e.beginTurn(work, input)
	e.classifyIntent(ctx, work)

	suspendedOrDone, res := e.route(ctx, entry, work, sessionID)
	if suspendedOrDone {
		return res, nil
	}

	return e.finishTurn(ctx, entry, work, sessionID, started), nil
}

// Resume continues a turn suspended at the approval gate. Continuation always
// proceeds as approved.
func (e *Engine) Resume(ctx context.Context, sessionID string) (*TurnResult, error) {
	entry := e.entry(sessionID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.suspended {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNoPendingTurn)
	}

	work, ok, err := e.checkpoints.take(sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore checkpoint: %w", err)
	}
	if !ok {
		entry.suspended = false
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNoPendingTurn)
	}
	entry.suspended = false

	ctx, cancel := context.WithTimeout(ctx, e.turnTimeout())
	defer cancel()

	ctx, span := otel.StartTurnSpan(ctx, sessionID, string(work.Intent))
	defer span.End()
	e.publish(ctx, broadcast.EventTurnResumed, map[string]any{"session_id": sessionID})
	started := e.now()

	if err := e.fanOut(ctx, work); err != nil {
		return e.failTurn(ctx, work, sessionID, err), nil
	}
	e.adviseTime(ctx, work)
	e.manageEconomy(ctx, work)

	return e.finishTurn(ctx, entry, work, sessionID, started), nil
}

// Snapshot returns a copy of the committed session state.
func (e *Engine) Snapshot(sessionID string) (session.State, bool) {
	e.mu.Lock()
	entry, ok := e.sessions[sessionID]
	e.mu.Unlock()
	if !ok {
		return session.State{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	snap, err := cloneState(entry.state)
	if err != nil {
		return session.State{}, false
	}
	return *snap, true
}

// route dispatches the classified turn down one of the four intent paths.
// It reports true when the turn already produced a result (suspension or
// terminal failure).
func (e *Engine) route(ctx context.Context, entry *sessionEntry, work *session.State, sessionID string) (bool, *TurnResult) {
	switch work.Intent {
	case session.IntentStartTask:
		e.buildPlan(ctx, work)
		work.NeedsApproval = e.requiresApproval(work)
		if work.NeedsApproval {
			res, err := e.suspend(ctx, entry, work, sessionID)
			if err != nil {
				return true, e.failTurn(ctx, work, sessionID, err)
			}
			return true, res
		}
		if err := e.fanOut(ctx, work); err != nil {
			return true, e.failTurn(ctx, work, sessionID, err)
		}
		e.adviseTime(ctx, work)
		e.manageEconomy(ctx, work)

	case session.IntentStuck, session.IntentDistracted:
		if done := e.patternLoop(ctx, work); !done {
			return true, e.failTurn(ctx, work, sessionID, ctx.Err())
		}

	case session.IntentCheckIn, session.IntentTakeBreak:
		e.adviseTime(ctx, work)
		e.manageEconomy(ctx, work)

	default:
		e.predictCognition(ctx, work)
		e.manageEconomy(ctx, work)
	}
	return false, nil
}

// patternLoop runs detection, escalating up to the configured cap. Reports
// false only when the turn deadline expired mid-loop.
func (e *Engine) patternLoop(ctx context.Context, work *session.State) bool {
	for {
		if ctx.Err() != nil {
			return false
		}
		e.detectPattern(ctx, work)
		switch routeSeverity(work, e.cfg.MaxEscalations) {
		case pattern.SeverityEscalate:
			e.escalate(ctx, work)
			continue
		case pattern.SeverityFull:
			e.manageEconomy(ctx, work)
		case pattern.SeverityQuick:
			// Straight to synthesis, skipping the economy pass.
		}
		return true
	}
}

// finishTurn synthesizes the response, applies the quality gate with bounded
// retries, commits the worked state, and logs the interaction.
func (e *Engine) finishTurn(ctx context.Context, entry *sessionEntry, work *session.State, sessionID string, started time.Time) *TurnResult {
	for {
		e.synthesize(ctx, work)
		work.QualityScore = qualityScore(work.Response)
		if work.QualityScore < 0.5 && work.RetryCount < e.cfg.MaxRetries {
			work.RetryCount++
			if e.mtr != nil {
				e.mtr.ResponseRetries.Add(ctx, 1)
			}
			continue
		}
		break
	}

	work.AppendMessage(session.RoleAssistant, work.Response, e.now())
	entry.state = work

	e.logInteraction(ctx, work)
	if e.mtr != nil {
		e.mtr.TurnsCompleted.Add(ctx, 1)
		e.mtr.TurnDuration.Record(ctx, e.now().Sub(started).Seconds())
	}
	e.publish(ctx, broadcast.EventTurnCompleted, map[string]any{
		"session_id": sessionID,
		"intent":     string(work.Intent),
		"quality":    work.QualityScore,
	})
	e.log.Info("turn completed",
		"session_id", sessionID,
		"intent", work.Intent,
		"quality", work.QualityScore,
		"retries", work.RetryCount,
		"escalations", work.EscalationLevel)

	return &TurnResult{
		SessionID:       sessionID,
		Intent:          work.Intent,
		Response:        work.Response,
		QualityScore:    work.QualityScore,
		State:           *work,
	}
}

// failTurn produces the apology result without committing any state.
func (e *Engine) failTurn(ctx context.Context, work *session.State, sessionID string, err error) *TurnResult {
	if e.mtr != nil {
		e.mtr.TurnsFailed.Add(ctx, 1)
	}
	e.log.Error("turn failed", "session_id", sessionID, "intent", work.Intent, "error", err)
	return &TurnResult{
		SessionID:    sessionID,
		Intent:       work.Intent,
		Response:     apologyResponse,
		QualityScore: 0,
	}
}

// beginTurn samples behavioral metrics from the incoming message and resets
// per-turn fields.
func (e *Engine) beginTurn(work *session.State, input string) {
	now := e.now()
	if n := len(work.Messages); n > 0 {
		elapsed := now.Sub(work.Messages[n-1].At)
		work.Metrics.RecordMessage(input, elapsed)
		work.Metrics.RecordResponseTime(elapsed.Seconds())
	} else {
		work.Metrics.RecordMessage(input, 0)
	}
	work.ResetTurn(input)
	work.AppendMessage(session.RoleHuman, input, now)
	work.InteractionCount++
}

func (e *Engine) entry(sessionID string) *sessionEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.sessions[sessionID]
	if !ok {
		entry = &sessionEntry{state: session.NewState(sessionID, e.now())}
		e.sessions[sessionID] = entry
	}
	return entry
}

func (e *Engine) turnTimeout() time.Duration {
	if e.cfg.TurnTimeout > 0 {
		return e.cfg.TurnTimeout
	}
	return 90 * time.Second
}

// fanOut runs the environment builder and the cognition pass concurrently.
// The two nodes write disjoint state fields; the environment branch reads the
// cognitive state from a pre-launch snapshot because the cognition branch
// advances it in place.
func (e *Engine) fanOut(ctx context.Context, work *session.State) error {
	cog := work.Cognitive
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.buildEnvironment(gctx, work, cog)
		return gctx.Err()
	})
	g.Go(func() error {
		e.predictCognition(gctx, work)
		return gctx.Err()
	})
	return g.Wait()
}

// stage wraps a node with a span and a completion event.
func (e *Engine) stage(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := otel.StartStageSpan(ctx, name)
	defer span.End()
	fn(ctx)
	e.publish(ctx, broadcast.EventStageCompleted, map[string]any{"stage": name})
}

func (e *Engine) publish(ctx context.Context, event string, payload any) {
	if e.events != nil {
		e.events.BroadcastEvent(ctx, event, payload)
	}
}

// logInteraction persists the turn's behavioral sample, best-effort.
func (e *Engine) logInteraction(ctx context.Context, work *session.State) {
	if e.hist == nil {
		return
	}
	var responseTime float64
	if n := len(work.Metrics.ResponseTimes); n > 0 {
		responseTime = work.Metrics.ResponseTimes[n-1]
	}
	rec := history.Interaction{
		SessionID:      work.SessionID,
		Timestamp:      e.now(),
		MessageLength:  len(work.Input),
		TypingSpeed:    work.Metrics.CurrentTypingSpeed,
		ResponseTime:   responseTime,
		FocusLevel:     string(work.Cognitive.FocusLevel),
		EnergyLevel:    work.Cognitive.EnergyLevel,
		CrashPredicted: work.Cognitive.CrashPrediction.Likelihood > 0.5,
	}
	if err := e.hist.LogInteraction(ctx, rec); err != nil {
		e.log.Warn("log interaction", "session_id", work.SessionID, "error", err)
	}
}

// cloneState round-trips through JSON. State is serializable by construction
// because suspended turns checkpoint the same way.
func cloneState(st *session.State) (*session.State, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	var out session.State
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
