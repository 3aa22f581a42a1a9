package bridge

import (
	"encoding/json"

	"ojpad/internal/judge/outcome"
)

// Outbound command names understood by the hosting shell.
const (
	CmdRunResponse    = "runResponse"
	CmdRunError       = "runError"
	CmdSubmitResponse = "submitResponse"
	CmdSubmitError    = "submitError"
	CmdProgress       = "progress"
)

// Inbound command names produced by the hosting shell.
const (
	CmdRunRemote  = "run-remote"
	CmdSubmitCode = "submit-code"
)

// Message is one outbound frame to the panel.
type Message struct {
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Inbound is one frame received from the panel.
type Inbound struct {
	Command  string `json:"command"`
	Slug     string `json:"slug"`
	LangSlug string `json:"langSlug"`
	Input    string `json:"input"`
}

// outcomeData is the wire form of a terminal judge outcome.
type outcomeData struct {
	Kind           string          `json:"kind"`
	StatusMsg      string          `json:"statusMsg,omitempty"`
	Message        string          `json:"message,omitempty"`
	TotalCorrect   int             `json:"totalCorrect"`
	TotalTestcases int             `json:"totalTestcases"`
	Runtime        string          `json:"runtime,omitempty"`
	Memory         string          `json:"memory,omitempty"`
	CodeAnswer     []string        `json:"codeAnswer,omitempty"`
	ExpectedAnswer []string        `json:"expectedAnswer,omitempty"`
	LastTestcase   string          `json:"lastTestcase,omitempty"`
	Raw            json.RawMessage `json:"raw,omitempty"`
}

// OutcomeMessage converts a terminal outcome into the single outbound frame
// for its operation. Transport faults and poll exhaustion travel on the
// error command; judge-reported verdicts travel on the response command.
func OutcomeMessage(mode outcome.Mode, out *outcome.Outcome) Message {
	responseCmd, errorCmd := CmdRunResponse, CmdRunError
	if mode == outcome.ModeSubmit {
		responseCmd, errorCmd = CmdSubmitResponse, CmdSubmitError
	}

	switch out.Kind {
	case outcome.KindTransportError, outcome.KindTimeout:
		text := out.Message
		if text == "" {
			text = out.Kind.String()
		}
		return Message{Command: errorCmd, Error: text}
	}

	data, err := json.Marshal(outcomeData{
		Kind:           out.Kind.String(),
		StatusMsg:      out.StatusMsg,
		Message:        out.Message,
		TotalCorrect:   out.TotalCorrect,
		TotalTestcases: out.TotalTestcases,
		Runtime:        out.Runtime,
		Memory:         out.Memory,
		CodeAnswer:     out.CodeAnswer,
		ExpectedAnswer: out.ExpectedAnswer,
		LastTestcase:   out.LastTestcase,
		Raw:            out.Raw,
	})
	if err != nil {
		return Message{Command: errorCmd, Error: "failed to encode outcome: " + err.Error()}
	}
	return Message{Command: responseCmd, Data: data}
}

// ErrorMessage converts a precondition failure into the outbound error frame.
func ErrorMessage(mode outcome.Mode, err error) Message {
	cmd := CmdRunError
	if mode == outcome.ModeSubmit {
		cmd = CmdSubmitError
	}
	return Message{Command: cmd, Error: err.Error()}
}

// ProgressMessage is a non-terminal ping emitted while a job is in flight.
func ProgressMessage(mode outcome.Mode, stage string, attempt int) Message {
	data, _ := json.Marshal(map[string]interface{}{
		"mode":    mode.String(),
		"stage":   stage,
		"attempt": attempt,
	})
	return Message{Command: CmdProgress, Data: data}
}
