package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ojpad/internal/judge"
	"ojpad/internal/judge/outcome"
	apperr "ojpad/pkg/errors"
)

// fakeRunner scripts judge client behavior for bridge tests.
type fakeRunner struct {
	out *outcome.Outcome
	err error
}

func (f *fakeRunner) RunInterpretation(ctx context.Context, slug, langSlug, input string, progress judge.ProgressFunc) (*outcome.Outcome, error) {
	if progress != nil {
		progress("posting", 0)
	}
	return f.out, f.err
}

func (f *fakeRunner) Submit(ctx context.Context, slug, langSlug string, progress judge.ProgressFunc) (*outcome.Outcome, error) {
	return f.out, f.err
}

func TestPostWithoutPanelIsNoOp(t *testing.T) {
	b := New(&fakeRunner{})
	// Must neither panic nor block.
	b.Post(Message{Command: CmdRunResponse})
}

func TestOutcomeMessageMapping(t *testing.T) {
	tests := []struct {
		name    string
		mode    outcome.Mode
		out     *outcome.Outcome
		wantCmd string
		wantErr bool
	}{
		{"run accepted", outcome.ModeRun, &outcome.Outcome{Kind: outcome.KindAccepted}, CmdRunResponse, false},
		{"run wrong answer", outcome.ModeRun, &outcome.Outcome{Kind: outcome.KindWrongAnswer}, CmdRunResponse, false},
		{"submit compile error", outcome.ModeSubmit, &outcome.Outcome{Kind: outcome.KindCompileError}, CmdSubmitResponse, false},
		{"run transport fault", outcome.ModeRun, outcome.Transport(outcome.ModeRun, "no handle returned"), CmdRunError, true},
		{"submit timeout", outcome.ModeSubmit, &outcome.Outcome{Kind: outcome.KindTimeout}, CmdSubmitError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := OutcomeMessage(tt.mode, tt.out)
			if msg.Command != tt.wantCmd {
				t.Errorf("command = %q, want %q", msg.Command, tt.wantCmd)
			}
			if tt.wantErr && msg.Error == "" {
				t.Error("expected an error string")
			}
			if !tt.wantErr && len(msg.Data) == 0 {
				t.Error("expected a data payload")
			}
		})
	}
}

func TestErrorMessageCommands(t *testing.T) {
	err := apperr.New(apperr.NoSolutionFile)
	if msg := ErrorMessage(outcome.ModeRun, err); msg.Command != CmdRunError {
		t.Errorf("run error command = %q", msg.Command)
	}
	if msg := ErrorMessage(outcome.ModeSubmit, err); msg.Command != CmdSubmitError {
		t.Errorf("submit error command = %q", msg.Command)
	}
}

func dialPanel(t *testing.T, b *Bridge) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewServer(ServerConfig{Addr: "127.0.0.1:0"}, b).http.Handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/panel"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial panel failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrames(t *testing.T, conn *websocket.Conn, timeout time.Duration) []Message {
	t.Helper()
	var frames []Message
	deadline := time.Now().Add(timeout)
	for {
		_ = conn.SetReadDeadline(deadline)
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return frames
		}
		frames = append(frames, msg)
		if msg.Command != CmdProgress {
			return frames
		}
	}
}

func TestDispatchOverPanelSocket(t *testing.T) {
	runner := &fakeRunner{out: &outcome.Outcome{
		Kind:           outcome.KindAccepted,
		TotalCorrect:   3,
		TotalTestcases: 3,
	}}
	b := New(runner)
	conn := dialPanel(t, b)

	if err := conn.WriteJSON(Inbound{Command: CmdRunRemote, Slug: "two-sum", LangSlug: "go"}); err != nil {
		t.Fatalf("write inbound failed: %v", err)
	}

	frames := readFrames(t, conn, 2*time.Second)
	if len(frames) == 0 {
		t.Fatal("no frames received")
	}
	last := frames[len(frames)-1]
	if last.Command != CmdRunResponse {
		t.Fatalf("terminal command = %q, want %q", last.Command, CmdRunResponse)
	}
	var data struct {
		Kind           string `json:"kind"`
		TotalCorrect   int    `json:"totalCorrect"`
		TotalTestcases int    `json:"totalTestcases"`
	}
	if err := json.Unmarshal(last.Data, &data); err != nil {
		t.Fatalf("parse data failed: %v", err)
	}
	if data.Kind != "Accepted" || data.TotalCorrect != 3 {
		t.Errorf("unexpected payload: %+v", data)
	}
}

func TestDispatchPreconditionFailureYieldsErrorFrame(t *testing.T) {
	runner := &fakeRunner{err: apperr.New(apperr.AuthRequired)}
	b := New(runner)
	conn := dialPanel(t, b)

	if err := conn.WriteJSON(Inbound{Command: CmdSubmitCode, Slug: "two-sum", LangSlug: "go"}); err != nil {
		t.Fatalf("write inbound failed: %v", err)
	}
	frames := readFrames(t, conn, 2*time.Second)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want exactly 1 terminal frame: %+v", len(frames), frames)
	}
	if frames[0].Command != CmdSubmitError || frames[0].Error == "" {
		t.Errorf("unexpected frame: %+v", frames[0])
	}
}

func TestDispatchUnknownCommandSendsNothing(t *testing.T) {
	runner := &fakeRunner{err: errors.New("must not be called")}
	b := New(runner)
	conn := dialPanel(t, b)

	if err := conn.WriteJSON(Inbound{Command: "reformat-disk"}); err != nil {
		t.Fatalf("write inbound failed: %v", err)
	}
	if frames := readFrames(t, conn, 300*time.Millisecond); len(frames) != 0 {
		t.Errorf("unknown command produced frames: %+v", frames)
	}
}
