package outcome

// Classify turns the terminal payload of one judge job into exactly one
// Outcome. A nil payload means the poll budget ran out without a terminal
// response, which is a recognized outcome, not a fault. Predicates apply in
// order; first match wins.
func Classify(p *CheckPayload, mode Mode) *Outcome {
	if p == nil {
		return &Outcome{Kind: KindTimeout, Mode: mode}
	}

	out := &Outcome{
		Mode:      mode,
		StatusMsg: p.StatusMsg,
		Runtime:   p.StatusRuntime,
		Memory:    p.StatusMemory,
		Raw:       p.Raw,
	}

	if msg, ok := compileErrorMessage(p); ok {
		out.Kind = KindCompileError
		out.Message = msg
		return out
	}

	if msg, ok := runtimeErrorMessage(p); ok {
		out.Kind = KindRuntimeError
		out.Message = msg
		out.LastTestcase = p.LastTestcase
		return out
	}

	if p.RunSuccess != nil && !*p.RunSuccess {
		out.Kind = KindWrongAnswer
		out.Message = p.StatusMsg
		out.LastTestcase = p.LastTestcase
		return out
	}

	if p.HasAnswerArrays() {
		correct, total := p.countCorrect()
		out.TotalCorrect = correct
		out.TotalTestcases = total
		out.CodeAnswer = p.trimmedAnswers()
		out.ExpectedAnswer = p.ExpectedAnswer
		out.LastTestcase = p.LastTestcase
		if total > 0 && correct == total {
			out.Kind = KindAccepted
		} else {
			out.Kind = KindWrongAnswer
		}
		return out
	}

	if p.TotalCorrect != nil && p.TotalTestcases != nil {
		correct, total := *p.TotalCorrect, *p.TotalTestcases
		out.TotalCorrect = correct
		out.TotalTestcases = total
		if total > 0 && correct == total {
			out.Kind = KindAccepted
		} else {
			out.Kind = KindWrongAnswer
			out.LastTestcase = p.LastTestcase
		}
		return out
	}

	out.Kind = KindUnexpected
	return out
}

// compileErrorMessage checks the compile-error indicators, preferring the
// fuller message field when both are populated.
func compileErrorMessage(p *CheckPayload) (string, bool) {
	if p.FullCompileError != "" {
		return p.FullCompileError, true
	}
	if p.CompileError != "" {
		return p.CompileError, true
	}
	if p.StatusMsg == "Compile Error" {
		return p.StatusMsg, true
	}
	return "", false
}

// runtimeErrorMessage mirrors compileErrorMessage for runtime faults.
func runtimeErrorMessage(p *CheckPayload) (string, bool) {
	if p.FullRuntimeError != "" {
		return p.FullRuntimeError, true
	}
	if p.RuntimeError != "" {
		return p.RuntimeError, true
	}
	if p.StatusMsg == "Runtime Error" {
		return p.StatusMsg, true
	}
	return "", false
}
