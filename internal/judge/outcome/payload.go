package outcome

import (
	"encoding/json"
	"strings"
)

// passMarker is the per-testcase pass indicator inside compare_result.
const passMarker = '1'

// CheckPayload is the loosely-decoded body of one poll response. Every field
// is optional; the raw body rides along for fallback display. Both the
// state field and status_msg are kept because run-mode responses report
// completion in either.
type CheckPayload struct {
	State            string   `json:"state"`
	StatusCode       int      `json:"status_code"`
	StatusMsg        string   `json:"status_msg"`
	RunSuccess       *bool    `json:"run_success"`
	CompileError     string   `json:"compile_error"`
	FullCompileError string   `json:"full_compile_error"`
	RuntimeError     string   `json:"runtime_error"`
	FullRuntimeError string   `json:"full_runtime_error"`
	CodeAnswer       []string `json:"code_answer"`
	ExpectedAnswer   []string `json:"expected_code_answer"`
	CompareResult    string   `json:"compare_result"`
	TotalCorrect     *int     `json:"total_correct"`
	TotalTestcases   *int     `json:"total_testcases"`
	StatusRuntime    string   `json:"status_runtime"`
	StatusMemory     string   `json:"status_memory"`
	LastTestcase     string   `json:"last_testcase"`

	Raw json.RawMessage `json:"-"`
}

// ParseCheck decodes a poll response body. A body that is not a JSON object
// yields nil, which the poll loop treats as a non-terminal attempt.
func ParseCheck(body []byte) *CheckPayload {
	var p CheckPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil
	}
	p.Raw = append(json.RawMessage(nil), body...)
	return &p
}

// Run-mode completion markers, matched case-insensitively against both the
// state field and status_msg. The judge reports finished ephemeral runs
// under several labels depending on version.
var runTerminalStates = []string{"success", "finished", "accepted", "ac"}

// Terminal reports whether this payload represents a finished job for the
// given mode. Submit mode requires an exact state match.
func (p *CheckPayload) Terminal(mode Mode) bool {
	if p == nil {
		return false
	}
	if mode == ModeSubmit {
		switch p.State {
		case "SUCCESS", "FAILURE", "ERROR":
			return true
		}
		return false
	}
	for _, candidate := range []string{p.State, p.StatusMsg} {
		lowered := strings.ToLower(candidate)
		for _, terminal := range runTerminalStates {
			if lowered == terminal {
				return true
			}
		}
	}
	return false
}

// HasAnswerArrays reports whether the payload carries comparable per-case
// output arrays.
func (p *CheckPayload) HasAnswerArrays() bool {
	return len(p.CodeAnswer) > 0 || len(p.ExpectedAnswer) > 0 || p.CompareResult != ""
}

// caseCount is the number of real test cases: the code_answer sequence ends
// with a sentinel element emitted by the remote API, which never counts.
func (p *CheckPayload) caseCount() int {
	if len(p.ExpectedAnswer) > 0 {
		return len(p.ExpectedAnswer)
	}
	if len(p.CodeAnswer) > 0 {
		return len(p.CodeAnswer) - 1
	}
	return len(p.CompareResult)
}

// countCorrect derives pass/fail tallies, preferring the judge's own totals
// when present and falling back to scanning compare_result.
func (p *CheckPayload) countCorrect() (correct, total int) {
	if p.TotalCorrect != nil && p.TotalTestcases != nil {
		return *p.TotalCorrect, *p.TotalTestcases
	}
	total = p.caseCount()
	if total < 0 {
		total = 0
	}
	for i := 0; i < total && i < len(p.CompareResult); i++ {
		if p.CompareResult[i] == passMarker {
			correct++
		}
	}
	return correct, total
}

// trimmedAnswers returns code_answer without the trailing sentinel element.
func (p *CheckPayload) trimmedAnswers() []string {
	n := p.caseCount()
	if n <= 0 || n > len(p.CodeAnswer) {
		return p.CodeAnswer
	}
	return p.CodeAnswer[:n]
}
