// Package judge drives the remote judge's unofficial API: question-id
// resolution, run/submit POSTs and the bounded poll loop that waits for the
// asynchronous backend to finish a job.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ojpad/internal/judge/outcome"
	"ojpad/internal/session"
	"ojpad/internal/solution"
	apperr "ojpad/pkg/errors"
	"ojpad/pkg/utils/logger"
)

const (
	defaultPollInterval = time.Second
	defaultPollAttempts = 60
)

// Config bounds the poll loop. The defaults (1s fixed interval, 60 attempts)
// match observed judge turnaround of a few seconds to under a minute; no
// backoff, since the judge's own queue latency dominates.
type Config struct {
	PollInterval time.Duration
	PollAttempts int
}

func (c *Config) setDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.PollAttempts <= 0 {
		c.PollAttempts = defaultPollAttempts
	}
}

// ProgressFunc receives non-terminal progress pings during an operation.
type ProgressFunc func(stage string, attempt int)

// Client executes run and submit operations against the judge. The session
// store is only ever read here; login/logout collaborators are the writers.
type Client struct {
	transport *Transport
	sess      *session.Store
	loader    *solution.Loader
	cfg       Config
}

func NewClient(transport *Transport, sess *session.Store, loader *solution.Loader, cfg Config) *Client {
	cfg.setDefaults()
	return &Client{
		transport: transport,
		sess:      sess,
		loader:    loader,
		cfg:       cfg,
	}
}

// Transport exposes the underlying transport for collaborators that share it.
func (c *Client) Transport() *Transport {
	return c.transport
}

// RunInterpretation runs the local solution for slug against custom input on
// the judge. The error return covers local precondition failures only;
// everything past the first network write comes back as an Outcome.
func (c *Client) RunInterpretation(ctx context.Context, slug, langSlug, input string, progress ProgressFunc) (*outcome.Outcome, error) {
	return c.execute(ctx, outcome.ModeRun, slug, langSlug, input, progress)
}

// Submit sends the local solution for slug as a graded submission.
func (c *Client) Submit(ctx context.Context, slug, langSlug string, progress ProgressFunc) (*outcome.Outcome, error) {
	return c.execute(ctx, outcome.ModeSubmit, slug, langSlug, "", progress)
}

func (c *Client) execute(ctx context.Context, mode outcome.Mode, slug, langSlug, input string, progress ProgressFunc) (*outcome.Outcome, error) {
	jobID := uuid.NewString()
	ctx = context.WithValue(ctx, logger.JobIDKey, jobID)
	ctx = context.WithValue(ctx, logger.SlugKey, slug)

	if !c.sess.IsAuthenticated() {
		return nil, apperr.AuthRequiredError(mode.String())
	}

	code, err := c.loader.Load(slug)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.NoSolutionFile)
	}
	if code == "" {
		return nil, apperr.NoSolutionError(slug)
	}

	ping(progress, "resolving", 0)
	questionID, err := c.transport.ResolveQuestionID(ctx, slug)
	if err != nil || questionID == "" {
		if mode == outcome.ModeSubmit {
			// Graded submissions are rejected remotely without an id, so
			// fail before touching the submit endpoint.
			return nil, apperr.Wrapf(coalesceErr(err), apperr.MissingQuestionID,
				"could not resolve question id for %q", slug)
		}
		// Ephemeral runs tolerate an empty id.
		logger.Warn(ctx, "question id resolution failed, continuing with empty id", zap.Error(err))
		questionID = ""
	}

	body := map[string]interface{}{
		"lang":        JudgeLang(langSlug),
		"question_id": questionID,
		"typed_code":  code,
	}
	if mode == outcome.ModeRun {
		body["data_input"] = input
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.InternalError)
	}

	referer := c.problemURL(slug)
	endpoint := fmt.Sprintf("/problems/%s/interpret_solution/", slug)
	if mode == outcome.ModeSubmit {
		endpoint = fmt.Sprintf("/problems/%s/submit/", slug)
	}

	ping(progress, "posting", 0)
	logger.Info(ctx, "posting judge job", zap.String("mode", mode.String()), zap.String("endpoint", endpoint))
	resp, err := c.transport.Do(ctx, "POST", endpoint, referer, payload)
	if err != nil {
		logger.Error(ctx, "judge post failed", zap.Error(err))
		return outcome.Transport(mode, err.Error()), nil
	}

	handle := extractHandle(resp.Body, mode)
	if handle == "" {
		logger.Error(ctx, "judge returned no job handle",
			zap.Int("status", resp.StatusCode), zap.Int("body_bytes", len(resp.Body)))
		return outcome.Transport(mode, "no handle returned"), nil
	}
	logger.Info(ctx, "judge job accepted", zap.String("handle", handle), zap.Duration("post_latency", resp.Duration))

	terminal := c.poll(ctx, handle, referer, mode, progress)
	out := outcome.Classify(terminal, mode)
	logger.Info(ctx, "judge job finished", zap.String("handle", handle), zap.String("kind", out.Kind.String()))
	return out, nil
}

// extractHandle pulls the job handle out of the POST response. The body is
// read as text first and JSON-parsed on a best-effort basis; a malformed
// body simply yields no handle. Run mode accepts both interpret_id and
// interpretation_id, since different judge versions use either name.
func extractHandle(body []byte, mode outcome.Mode) string {
	var fields struct {
		InterpretID      string      `json:"interpret_id"`
		InterpretationID string      `json:"interpretation_id"`
		SubmissionID     json.Number `json:"submission_id"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	if mode == outcome.ModeSubmit {
		return fields.SubmissionID.String()
	}
	if fields.InterpretID != "" {
		return fields.InterpretID
	}
	return fields.InterpretationID
}

// poll issues up to cfg.PollAttempts sequential status GETs for the handle,
// waiting the fixed interval before each one, and returns the first payload
// matching the mode's terminal predicate. A transport fault on a single
// attempt is tolerated and counts against the same budget; exhaustion
// returns nil, which classifies as Timeout. Exactly one terminal outcome,
// no silent hang.
func (c *Client) poll(ctx context.Context, handle, referer string, mode outcome.Mode, progress ProgressFunc) *outcome.CheckPayload {
	checkPath := fmt.Sprintf("/submissions/detail/%s/check/", handle)
	timer := time.NewTimer(c.cfg.PollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= c.cfg.PollAttempts; attempt++ {
		timer.Reset(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		ping(progress, "polling", attempt)
		resp, err := c.transport.Do(ctx, "GET", checkPath, referer, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn(ctx, "poll attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		payload := outcome.ParseCheck(resp.Body)
		if payload == nil {
			logger.Debug(ctx, "poll returned non-json body", zap.Int("attempt", attempt))
			continue
		}
		if payload.Terminal(mode) {
			return payload
		}
		logger.Debug(ctx, "job still pending",
			zap.Int("attempt", attempt), zap.String("state", payload.State))
	}
	return nil
}

// problemURL is the page the Referer header must point at.
func (c *Client) problemURL(slug string) string {
	return fmt.Sprintf("%s/problems/%s/", c.transport.BaseURL(), slug)
}

func ping(progress ProgressFunc, stage string, attempt int) {
	if progress != nil {
		progress(stage, attempt)
	}
}

func coalesceErr(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("question id missing in response")
}
