// Package bridge relays judge outcomes to the editor's UI panel over a
// local websocket, and dispatches the panel's run/submit commands to the
// judge client. The relay is one-directional per message and never blocks
// an operation: with no panel attached, sends are swallowed, not retried.
package bridge

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ojpad/internal/judge"
	"ojpad/internal/judge/outcome"
	"ojpad/pkg/utils/logger"
)

// Runner is the judge client surface the bridge drives. Injected rather
// than referenced through shared module state so the bridge and the judge
// client are independently testable.
type Runner interface {
	RunInterpretation(ctx context.Context, slug, langSlug, input string, progress judge.ProgressFunc) (*outcome.Outcome, error)
	Submit(ctx context.Context, slug, langSlug string, progress judge.ProgressFunc) (*outcome.Outcome, error)
}

// Bridge holds at most one panel connection. A newly attached panel
// replaces the previous one; outcomes of jobs started under the old panel
// go to whichever panel is attached when they finish, or nowhere.
type Bridge struct {
	runner Runner

	mu   sync.Mutex
	conn *websocket.Conn
}

func New(runner Runner) *Bridge {
	return &Bridge{runner: runner}
}

// Post sends one frame to the attached panel. With no panel present this is
// a deliberate no-op: the panel may have been closed mid-poll and the
// in-flight job still runs to completion, its terminal message discarded.
func (b *Bridge) Post(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return
	}
	if err := b.conn.WriteJSON(msg); err != nil {
		logger.Warn(context.Background(), "panel write failed, detaching",
			zap.String("command", msg.Command), zap.Error(err))
		_ = b.conn.Close()
		b.conn = nil
	}
}

// attach makes conn the current panel, closing any previous one.
func (b *Bridge) attach(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		_ = b.conn.Close()
	}
	b.conn = conn
}

// detach drops conn if it is still the current panel.
func (b *Bridge) detach(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == conn {
		b.conn = nil
	}
	_ = conn.Close()
}

// Dispatch executes one inbound panel command. Every invocation terminates
// in exactly one terminal outbound frame; the panel is never left in a
// perpetual running state.
func (b *Bridge) Dispatch(ctx context.Context, in Inbound) {
	var mode outcome.Mode
	switch in.Command {
	case CmdRunRemote:
		mode = outcome.ModeRun
	case CmdSubmitCode:
		mode = outcome.ModeSubmit
	default:
		logger.Warn(ctx, "unrecognized panel command", zap.String("command", in.Command))
		return
	}

	progress := func(stage string, attempt int) {
		b.Post(ProgressMessage(mode, stage, attempt))
	}

	var (
		out *outcome.Outcome
		err error
	)
	if mode == outcome.ModeRun {
		out, err = b.runner.RunInterpretation(ctx, in.Slug, in.LangSlug, in.Input, progress)
	} else {
		out, err = b.runner.Submit(ctx, in.Slug, in.LangSlug, progress)
	}
	if err != nil {
		b.Post(ErrorMessage(mode, err))
		return
	}
	b.Post(OutcomeMessage(mode, out))
}
