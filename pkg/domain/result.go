package domain

// ResultStatus is the coarse outcome of a scan operation.
type ResultStatus string

const (
	// ResultDone indicates the operation succeeded; the payload holds a report.
	ResultDone ResultStatus = "DONE"
	// ResultFailed indicates the operation failed; the payload holds whatever
	// context was available (a FailureDetail or a partially parsed report).
	ResultFailed ResultStatus = "FAILED"
)

// Payload is implemented by every value a Result can carry.
type Payload interface {
	// Subject returns the contract the payload describes.
	Subject() Target
}

// Result is the stable boundary between scan operations and their callers:
// a status, a human-readable message and a structured payload. A FAILED result
// is the normal path for bad input or service unavailability.
type Result struct {
	Status  ResultStatus `json:"status"`
	Message string       `json:"message"`
	Payload Payload      `json:"payload,omitempty"`

	// Err is the classified error behind a FAILED result. It is nil for DONE
	// results and is never serialized.
	Err error `json:"-"`
}

// Done builds a successful result.
func Done(message string, payload Payload) Result {
	return Result{Status: ResultDone, Message: message, Payload: payload}
}

// Failed builds a failed result.
func Failed(message string, payload Payload, err error) Result {
	return Result{Status: ResultFailed, Message: message, Payload: payload, Err: err}
}

// OK reports whether the result is DONE.
func (r Result) OK() bool { return r.Status == ResultDone }

// FailureDetail is the payload of failures that produced no report.
type FailureDetail struct {
	Target

	Error string `json:"error,omitempty"`
}

// Subject implements Payload.
func (f *FailureDetail) Subject() Target { return f.Target }
