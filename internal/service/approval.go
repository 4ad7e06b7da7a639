package service

import (
	"context"
	"fmt"

	"github.com/Strob0t/NeuroFlow/internal/domain/session"
	"github.com/Strob0t/NeuroFlow/internal/port/broadcast"
)

// requiresApproval flags plans too large to start unreviewed: more micro
// steps than the configured cap, or a realistic duration past the minute cap.
func (e *Engine) requiresApproval(work *session.State) bool {
	if work.Task == nil || work.Task.Plan == nil {
		return false
	}
	steps := len(work.Task.Plan.MicroSteps)
	return steps > e.cfg.ApprovalSteps || work.Task.RealisticDuration > e.cfg.ApprovalMins
}

// suspend checkpoints the worked state and parks the turn until Resume. The
// returned result carries the plan so the caller can review it.
func (e *Engine) suspend(ctx context.Context, entry *sessionEntry, work *session.State, sessionID string) (*TurnResult, error) {
	if err := e.checkpoints.save(sessionID, work); err != nil {
		return nil, fmt.Errorf("checkpoint session state: %w", err)
	}
	entry.suspended = true

	if e.mtr != nil {
		e.mtr.TurnsSuspended.Add(ctx, 1)
	}
	e.publish(ctx, broadcast.EventTurnSuspended, map[string]any{
		"session_id": sessionID,
		"task_id":    work.Task.ID,
	})
	e.log.Info("turn suspended for plan approval",
		"session_id", sessionID,
		"task_id", work.Task.ID,
		"micro_steps", len(work.Task.Plan.MicroSteps),
		"realistic_minutes", work.Task.RealisticDuration)

	return &TurnResult{
		SessionID:       sessionID,
		Intent:          work.Intent,
		Response:        approvalRequest(work),
		PendingApproval: true,
		State:           *work,
	}, nil
}

// approvalRequest renders the plan review message shown while suspended.
func approvalRequest(work *session.State) string {
	return fmt.Sprintf(
		"📋 **This plan is big enough to deserve a quick look before we dive in.**\n\n%s\n\n"+
			"It has %d micro-steps and a realistic estimate of %d minutes. "+
			"When you're ready, approve it and I'll set everything up.",
		work.ContextOutput,
		len(work.Task.Plan.MicroSteps),
		work.Task.RealisticDuration)
}
