package gtrans

import "fmt"

// LangRole tells which side of a request a language tag was given for.
type LangRole string

const (
	RoleSource      LangRole = "source"
	RoleDestination LangRole = "destination"
)

// InvalidLanguageError indicates a language tag that matches no known code,
// alias or language name.
type InvalidLanguageError struct {
	Lang string
	Role LangRole
}

func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("invalid %s language: %q", e.Role, e.Lang)
}

// UnexpectedStatusError indicates a non-200 reply from a service host.
type UnexpectedStatusError struct {
	StatusCode int
	Host       string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.Host)
}

// TransportError indicates the request never produced an HTTP reply
// (dial failure, timeout, cancelled context).
type TransportError struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// FramingError indicates the RPC reply could not be located in the response
// body: the marker is missing or its brackets never balance.
type FramingError struct {
	Message string
}

func (e *FramingError) Error() string {
	return "framing error: " + e.Message
}

// DecodeStage names the JSON nesting level a decode failure happened at.
type DecodeStage string

const (
	StageOuter DecodeStage = "outer"
	StageInner DecodeStage = "inner"
)

// MalformedJSONError indicates a framed reply whose outer envelope or inner
// payload is not the expected JSON.
type MalformedJSONError struct {
	Stage   DecodeStage
	Message string
	Cause   error
}

func (e *MalformedJSONError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s JSON: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed %s JSON: %s", e.Stage, e.Message)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Cause
}

// BatchError reports the first failed item of a batch translation.
type BatchError struct {
	Index int
	Cause error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch item %d: %v", e.Index, e.Cause)
}

func (e *BatchError) Unwrap() error {
	return e.Cause
}
