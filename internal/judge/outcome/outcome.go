// Package outcome classifies raw judge check responses into a closed set of
// outcome kinds. The remote response shape varies by judge version, language
// and error class, so classification is an ordered set of tolerant shape
// predicates over a loose payload, never a strict schema; anything
// unrecognized degrades to an outcome that preserves the raw body for
// display instead of failing.
package outcome

import "encoding/json"

// Mode distinguishes an ephemeral run against custom input from a graded
// submission. Terminal predicates differ between the two.
type Mode int

const (
	ModeRun Mode = iota
	ModeSubmit
)

func (m Mode) String() string {
	if m == ModeSubmit {
		return "submit"
	}
	return "run"
}

// Kind is the closed set of terminal outcome kinds.
type Kind int

const (
	KindAccepted Kind = iota
	KindWrongAnswer
	KindCompileError
	KindRuntimeError
	KindTimeout
	KindTransportError
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindAccepted:
		return "Accepted"
	case KindWrongAnswer:
		return "Wrong Answer"
	case KindCompileError:
		return "Compile Error"
	case KindRuntimeError:
		return "Runtime Error"
	case KindTimeout:
		return "Timeout"
	case KindTransportError:
		return "Transport Error"
	default:
		return "Unexpected Response"
	}
}

// Outcome is the single terminal result of one run or submit operation.
type Outcome struct {
	Kind           Kind
	Mode           Mode
	StatusMsg      string
	Message        string // compile/runtime/transport error text
	TotalCorrect   int
	TotalTestcases int
	Runtime        string
	Memory         string
	CodeAnswer     []string
	ExpectedAnswer []string
	LastTestcase   string
	Raw            json.RawMessage // preserved for diagnostic display
}

// Transport builds a transport-error outcome for faults reaching the judge.
func Transport(mode Mode, message string) *Outcome {
	return &Outcome{Kind: KindTransportError, Mode: mode, Message: message}
}
