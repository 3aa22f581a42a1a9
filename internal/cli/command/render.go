package command

import (
	"encoding/json"
	"fmt"
	"io"

	"ojpad/internal/judge/outcome"
)

// RenderOutcome prints a terminal judge outcome as plain text. Unexpected
// response shapes fall back to the raw payload rather than hiding data.
func RenderOutcome(out io.Writer, result *outcome.Outcome) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "== %s ==\n", result.Kind.String())

	switch result.Kind {
	case outcome.KindAccepted:
		fmt.Fprintf(out, "%d/%d test cases passed\n", result.TotalCorrect, result.TotalTestcases)
		if result.Runtime != "" {
			fmt.Fprintf(out, "runtime: %s", result.Runtime)
			if result.Memory != "" {
				fmt.Fprintf(out, "  memory: %s", result.Memory)
			}
			fmt.Fprintln(out)
		}
	case outcome.KindWrongAnswer:
		if result.TotalTestcases > 0 {
			fmt.Fprintf(out, "%d/%d test cases passed\n", result.TotalCorrect, result.TotalTestcases)
		}
		if result.StatusMsg != "" && result.StatusMsg != result.Kind.String() {
			fmt.Fprintln(out, result.StatusMsg)
		}
		renderAnswerDiff(out, result)
		if result.LastTestcase != "" {
			fmt.Fprintf(out, "failing input:\n%s\n", result.LastTestcase)
		}
	case outcome.KindCompileError, outcome.KindRuntimeError:
		fmt.Fprintln(out, result.Message)
		if result.LastTestcase != "" {
			fmt.Fprintf(out, "failing input:\n%s\n", result.LastTestcase)
		}
	case outcome.KindTimeout:
		fmt.Fprintln(out, "the judge did not report a result in time; check the website for the final verdict")
	case outcome.KindTransportError:
		fmt.Fprintln(out, result.Message)
	default:
		fmt.Fprintln(out, "the judge sent a response this client does not recognize:")
		renderRaw(out, result.Raw)
	}
}

func renderAnswerDiff(out io.Writer, result *outcome.Outcome) {
	if len(result.CodeAnswer) == 0 && len(result.ExpectedAnswer) == 0 {
		return
	}
	for i := 0; i < len(result.CodeAnswer) || i < len(result.ExpectedAnswer); i++ {
		got, want := "", ""
		if i < len(result.CodeAnswer) {
			got = result.CodeAnswer[i]
		}
		if i < len(result.ExpectedAnswer) {
			want = result.ExpectedAnswer[i]
		}
		marker := "ok"
		if got != want {
			marker = "XX"
		}
		fmt.Fprintf(out, "  case %d [%s] got %q want %q\n", i+1, marker, got, want)
	}
}

func renderRaw(out io.Writer, raw json.RawMessage) {
	if len(raw) == 0 {
		fmt.Fprintln(out, "(empty response)")
		return
	}
	var pretty interface{}
	if err := json.Unmarshal(raw, &pretty); err == nil {
		if formatted, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			fmt.Fprintln(out, string(formatted))
			return
		}
	}
	fmt.Fprintln(out, string(raw))
}
