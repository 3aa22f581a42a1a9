package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Session & Auth errors
// 12000-12999: Problem & Solution errors
// 13000-13999: Judge workflow errors
// 14000-14999: Panel bridge errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalError      ErrorCode = 10001
	InvalidParams      ErrorCode = 10002
	NotFound           ErrorCode = 10003
	Unauthorized       ErrorCode = 10004
	ServiceUnavailable ErrorCode = 10005
	Timeout            ErrorCode = 10006

	// Configuration errors (10100-10199)
	ConfigLoadFailed ErrorCode = 10100
	ConfigInvalid    ErrorCode = 10101
	StateLoadFailed  ErrorCode = 10102
	StateSaveFailed  ErrorCode = 10103

	// Cache errors (10200-10299)
	CacheError     ErrorCode = 10200
	CacheMiss      ErrorCode = 10201
	CacheSetFailed ErrorCode = 10202

	// ========== Session & Auth Errors (11000-11999) ==========

	AuthRequired     ErrorCode = 11000
	SessionExpired   ErrorCode = 11001
	InvalidCookie    ErrorCode = 11002
	CSRFTokenMissing ErrorCode = 11003

	// ========== Problem & Solution Errors (12000-12999) ==========

	ProblemNotFound    ErrorCode = 12000
	ProblemQueryFailed ErrorCode = 12001
	SnippetUnavailable ErrorCode = 12002
	NoSolutionFile     ErrorCode = 12100
	SolutionExists     ErrorCode = 12101
	SolutionWriteError ErrorCode = 12102

	// ========== Judge Workflow Errors (13000-13999) ==========

	MissingQuestionID ErrorCode = 13000
	TransportError    ErrorCode = 13001
	NoJobHandle       ErrorCode = 13002
	JudgeTimeout      ErrorCode = 13003
	MalformedResponse ErrorCode = 13004

	// ========== Panel Bridge Errors (14000-14999) ==========

	BridgeStartFailed   ErrorCode = 14000
	BridgeBadMessage    ErrorCode = 14001
	BridgeUpgradeFailed ErrorCode = 14002
)

// errorMessages maps error codes to default human-readable messages
var errorMessages = map[ErrorCode]string{
	Success: "success",

	InternalError:      "internal error",
	InvalidParams:      "invalid parameters",
	NotFound:           "resource not found",
	Unauthorized:       "unauthorized",
	ServiceUnavailable: "service unavailable",
	Timeout:            "operation timed out",

	ConfigLoadFailed: "failed to load configuration",
	ConfigInvalid:    "invalid configuration",
	StateLoadFailed:  "failed to load persisted state",
	StateSaveFailed:  "failed to save persisted state",

	CacheError:     "cache operation failed",
	CacheMiss:      "cache miss",
	CacheSetFailed: "cache set failed",

	AuthRequired:     "sign in required",
	SessionExpired:   "session has expired, please sign in again",
	InvalidCookie:    "cookie string could not be parsed",
	CSRFTokenMissing: "anti-forgery token is missing",

	ProblemNotFound:    "problem not found",
	ProblemQueryFailed: "problem query failed",
	SnippetUnavailable: "no code snippet available for this language",
	NoSolutionFile:     "no solution file found for this problem",
	SolutionExists:     "solution file already exists",
	SolutionWriteError: "failed to write solution file",

	MissingQuestionID: "could not resolve question id",
	TransportError:    "failed to reach the judge",
	NoJobHandle:       "judge did not return a job handle",
	JudgeTimeout:      "judge did not finish in time",
	MalformedResponse: "judge returned a malformed response",

	BridgeStartFailed:   "panel bridge failed to start",
	BridgeBadMessage:    "panel sent an unrecognized message",
	BridgeUpgradeFailed: "websocket upgrade failed",
}

// Message returns the default message for an error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "unknown error"
}

// Int returns the numeric value of the code
func (c ErrorCode) Int() int {
	return int(c)
}
