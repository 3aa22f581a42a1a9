// Package repl is the interactive shell of the client.
package repl

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"

	"ojpad/internal/cli/command"
	"ojpad/internal/judge"
	"ojpad/internal/session"
)

// Session holds REPL state.
type Session struct {
	commands  map[string]command.Command
	transport *judge.Transport
	store     *session.Store
	rl        *readline.Instance
	out       io.Writer
}

func New(commands map[string]command.Command, transport *judge.Transport, store *session.Store) (*Session, error) {
	rl, err := readline.New("ojpad> ")
	if err != nil {
		return nil, fmt.Errorf("init readline failed: %w", err)
	}
	return &Session{
		commands:  commands,
		transport: transport,
		store:     store,
		rl:        rl,
		out:       rl.Stdout(),
	}, nil
}

// Run reads commands until EOF or an explicit exit.
func (s *Session) Run(ctx context.Context) {
	defer func() { _ = s.rl.Close() }()
	for {
		line, err := s.rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if done := s.handleSystemCommand(line); done {
			return
		}
		if s.handledBuiltins(line) {
			continue
		}
		if err := s.handleCommand(ctx, line); err != nil {
			s.printLine("error: %v", err)
		}
	}
}

// handleSystemCommand returns true when the REPL should terminate.
func (s *Session) handleSystemCommand(line string) bool {
	switch line {
	case "exit", "quit":
		s.printLine("bye")
		return true
	}
	return false
}

func (s *Session) handledBuiltins(line string) bool {
	switch {
	case line == "help":
		s.printHelp()
		return true
	case strings.HasPrefix(line, "set "):
		s.handleSet(strings.TrimSpace(strings.TrimPrefix(line, "set ")))
		return true
	case strings.HasPrefix(line, "show "):
		s.handleShow(strings.TrimSpace(strings.TrimPrefix(line, "show ")))
		return true
	}
	return false
}

func (s *Session) handleSet(args string) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		s.printLine("usage: set base|timeout <value>")
		return
	}
	switch parts[0] {
	case "base":
		s.transport.SetBaseURL(strings.TrimSuffix(parts[1], "/"))
		s.printLine("base set to %s", parts[1])
	case "timeout":
		dur, err := time.ParseDuration(parts[1])
		if err != nil {
			s.printLine("invalid duration: %v", err)
			return
		}
		s.transport.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	default:
		s.printLine("unknown set command")
	}
}

func (s *Session) handleShow(args string) {
	switch args {
	case "session":
		if !s.store.IsAuthenticated() {
			s.printLine("session: <empty>")
			return
		}
		header := s.store.CookieHeader()
		if len(header) > 40 {
			header = header[:20] + "..." + header[len(header)-12:]
		}
		s.printLine("session: %s", header)
	case "base":
		s.printLine("base: %s", s.transport.BaseURL())
	default:
		s.printLine("usage: show session|base")
	}
}

func (s *Session) handleCommand(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) < 2 {
		return fmt.Errorf("invalid command, use: <service> <action> key=value ...")
	}
	key := fmt.Sprintf("%s %s", tokens[0], tokens[1])
	cmd, ok := s.commands[key]
	if !ok {
		return fmt.Errorf("unknown command: %s", key)
	}
	params := command.Params{}
	for _, token := range tokens[2:] {
		parts := strings.SplitN(token, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid param: %s", token)
		}
		params.Set(parts[0], parts[1])
	}

	if err := s.promptMissing(&cmd, params); err != nil {
		return err
	}
	return cmd.Run(ctx, params, s.out)
}

func (s *Session) promptMissing(cmd *command.Command, params command.Params) error {
	for _, field := range cmd.Fields {
		if !field.Required || params.Get(field.Name) != "" {
			continue
		}
		value, err := s.promptValue(field.Prompt)
		if err != nil {
			return err
		}
		params.Set(field.Name, value)
	}
	return nil
}

func (s *Session) promptValue(prompt string) (string, error) {
	s.rl.SetPrompt(prompt + ": ")
	defer s.rl.SetPrompt("ojpad> ")
	line, err := s.rl.Readline()
	if err != nil {
		return "", fmt.Errorf("read input failed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) printHelp() {
	s.printLine("usage: <service> <action> key=value ...")
	s.printLine("system: help | exit | set base|timeout | show session|base")
	keys := make([]string, 0, len(s.commands))
	for key := range s.commands {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		s.printLine("  %-16s %s", key, s.commands[key].Summary)
	}
	s.printLine("examples:")
	s.printLine(`  auth login cookie="LEETCODE_SESSION=...; csrftoken=..."`)
	s.printLine("  problem pull slug=two-sum lang=go")
	s.printLine("  judge submit slug=two-sum lang=go")
}

func (s *Session) printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}
