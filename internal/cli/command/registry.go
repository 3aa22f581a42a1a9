package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"ojpad/internal/judge"
	"ojpad/internal/problem"
	"ojpad/internal/session"
	"ojpad/internal/solution"
	apperr "ojpad/pkg/errors"
)

// Deps wires the command handlers into the client's services.
type Deps struct {
	Session   *session.Store
	StatePath string
	Judge     *judge.Client
	Problems  *problem.Service
	Loader    *solution.Loader
}

// Registry returns all CLI commands keyed by "service action".
func Registry(deps *Deps) map[string]Command {
	commands := []Command{
		{
			Service: "auth",
			Action:  "login",
			Summary: "store a pasted browser Cookie header as the session",
			Fields: []Field{
				{Name: "cookie", Prompt: "cookie header", Required: true},
				{Name: "csrf", Prompt: "csrf token (blank to derive from cookie)"},
			},
			Run: deps.authLogin,
		},
		{
			Service: "auth",
			Action:  "logout",
			Summary: "clear the stored session",
			Run:     deps.authLogout,
		},
		{
			Service: "auth",
			Action:  "status",
			Summary: "validate the session against the remote site",
			Run:     deps.authStatus,
		},
		{
			Service: "problem",
			Action:  "list",
			Summary: "list problems with optional filters",
			Fields: []Field{
				{Name: "difficulty", Prompt: "difficulty (EASY|MEDIUM|HARD)"},
				{Name: "search", Prompt: "search keywords"},
				{Name: "status", Prompt: "status (AC|NOT_STARTED|TRIED)"},
				{Name: "limit", Prompt: "limit"},
				{Name: "skip", Prompt: "skip"},
			},
			Run: deps.problemList,
		},
		{
			Service: "problem",
			Action:  "show",
			Summary: "show one problem's statement",
			Fields: []Field{
				{Name: "slug", Prompt: "problem slug", Required: true},
			},
			Run: deps.problemShow,
		},
		{
			Service: "problem",
			Action:  "pull",
			Summary: "generate a local solution file from the remote snippet",
			Fields: []Field{
				{Name: "slug", Prompt: "problem slug", Required: true},
				{Name: "lang", Prompt: "language slug", Required: true},
			},
			Run: deps.problemPull,
		},
		{
			Service: "judge",
			Action:  "run",
			Summary: "run the local solution against custom input",
			Fields: []Field{
				{Name: "slug", Prompt: "problem slug", Required: true},
				{Name: "lang", Prompt: "language slug", Required: true},
				{Name: "input", Prompt: "custom input (blank for default)"},
			},
			Run: deps.judgeRun,
		},
		{
			Service: "judge",
			Action:  "submit",
			Summary: "submit the local solution for grading",
			Fields: []Field{
				{Name: "slug", Prompt: "problem slug", Required: true},
				{Name: "lang", Prompt: "language slug", Required: true},
			},
			Run: deps.judgeSubmit,
		},
	}

	registry := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		registry[cmd.Key()] = cmd
	}
	return registry
}

func (d *Deps) authLogin(ctx context.Context, params Params, out io.Writer) error {
	cookies := session.ParseCookieHeader(params.Get("cookie"))
	if len(cookies) == 0 {
		return apperr.New(apperr.InvalidCookie)
	}
	d.Session.Replace(cookies, params.Get("csrf"))

	status, err := d.Judge.Transport().FetchUserStatus(ctx)
	if err != nil {
		d.Session.Clear()
		return apperr.TransportFault(err)
	}
	if !status.IsSignedIn {
		d.Session.Clear()
		return apperr.New(apperr.SessionExpired).WithMessage("the pasted cookies are not signed in")
	}

	if err := session.SaveState(d.StatePath, session.State{
		Cookies:   d.Session.Cookies(),
		CSRFToken: d.Session.CSRFToken(),
	}); err != nil {
		return apperr.Wrap(err, apperr.StateSaveFailed)
	}
	fmt.Fprintf(out, "signed in as %s\n", status.Username)
	return nil
}

func (d *Deps) authLogout(ctx context.Context, params Params, out io.Writer) error {
	d.Session.Clear()
	if err := session.ClearState(d.StatePath); err != nil {
		return apperr.Wrap(err, apperr.StateSaveFailed)
	}
	fmt.Fprintln(out, "signed out")
	return nil
}

func (d *Deps) authStatus(ctx context.Context, params Params, out io.Writer) error {
	if !d.Session.IsAuthenticated() {
		fmt.Fprintln(out, "not signed in")
		return nil
	}
	status, err := d.Judge.Transport().FetchUserStatus(ctx)
	if err != nil {
		return apperr.TransportFault(err)
	}
	if !status.IsSignedIn {
		// Cookies went stale remotely; treat the session as expired.
		d.Session.Clear()
		_ = session.ClearState(d.StatePath)
		fmt.Fprintln(out, "session expired, please sign in again")
		return nil
	}
	premium := ""
	if status.IsPremium {
		premium = " (premium)"
	}
	fmt.Fprintf(out, "signed in as %s%s\n", status.Username, premium)
	return nil
}

func (d *Deps) problemList(ctx context.Context, params Params, out io.Writer) error {
	filters := problem.Filters{
		Difficulty: strings.ToUpper(params.Get("difficulty")),
		Search:     params.Get("search"),
		Status:     strings.ToUpper(params.Get("status")),
	}
	if raw := params.Get("limit"); raw != "" {
		n, err := ParseInt(raw)
		if err != nil {
			return apperr.Newf(apperr.InvalidParams, "invalid limit: %v", err)
		}
		filters.Limit = n
	}
	if raw := params.Get("skip"); raw != "" {
		n, err := ParseInt(raw)
		if err != nil {
			return apperr.Newf(apperr.InvalidParams, "invalid skip: %v", err)
		}
		filters.Skip = n
	}

	summaries, total, err := d.Problems.List(ctx, filters)
	if err != nil {
		return apperr.Wrap(err, apperr.ProblemQueryFailed)
	}
	for _, s := range summaries {
		locked := ""
		if s.PaidOnly {
			locked = " [locked]"
		}
		fmt.Fprintf(out, "%5s  %-8s  %-50s %s%s\n", s.QuestionID, s.Difficulty, s.TitleSlug, s.Status, locked)
	}
	fmt.Fprintf(out, "%d of %d problems\n", len(summaries), total)
	return nil
}

func (d *Deps) problemShow(ctx context.Context, params Params, out io.Writer) error {
	detail, err := d.Problems.Detail(ctx, params.Get("slug"))
	if err != nil {
		return apperr.Wrap(err, apperr.ProblemQueryFailed)
	}
	fmt.Fprintf(out, "#%s %s [%s]\n\n", detail.QuestionID, detail.Title, detail.Difficulty)
	fmt.Fprintln(out, detail.Content)
	return nil
}

func (d *Deps) problemPull(ctx context.Context, params Params, out io.Writer) error {
	slug := params.Get("slug")
	lang := judge.JudgeLang(params.Get("lang"))

	snippets, err := d.Problems.Snippets(ctx, slug)
	if err != nil {
		return apperr.Wrap(err, apperr.ProblemQueryFailed)
	}
	snippet, ok := snippets[lang]
	if !ok {
		return apperr.Newf(apperr.SnippetUnavailable, "no %s snippet for %q", lang, slug)
	}
	path, err := d.Loader.Generate(slug, judge.SolutionExtension(lang), snippet)
	if err != nil {
		return apperr.Wrap(err, apperr.SolutionWriteError)
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func (d *Deps) judgeRun(ctx context.Context, params Params, out io.Writer) error {
	progress := progressPrinter(out)
	result, err := d.Judge.RunInterpretation(ctx, params.Get("slug"), params.Get("lang"), params.Get("input"), progress)
	if err != nil {
		return err
	}
	RenderOutcome(out, result)
	return nil
}

func (d *Deps) judgeSubmit(ctx context.Context, params Params, out io.Writer) error {
	progress := progressPrinter(out)
	result, err := d.Judge.Submit(ctx, params.Get("slug"), params.Get("lang"), progress)
	if err != nil {
		return err
	}
	RenderOutcome(out, result)
	return nil
}

func progressPrinter(out io.Writer) judge.ProgressFunc {
	return func(stage string, attempt int) {
		if stage == "polling" {
			fmt.Fprintf(out, "\rwaiting for judge... attempt %d", attempt)
			return
		}
		fmt.Fprintf(out, "%s...\n", stage)
	}
}
