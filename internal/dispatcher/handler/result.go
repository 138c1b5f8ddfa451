package handler

import "fmt"

// ResultStatus indicates the outcome of an action.
type ResultStatus uint8

const (
	// StatusOK indicates successful execution.
	StatusOK ResultStatus = iota
	// StatusNoOp indicates the action had no effect, like moving past the
	// end of the buffer.
	StatusNoOp
	// StatusError indicates an error occurred.
	StatusError
	// StatusCancelled indicates the user quit the command.
	StatusCancelled
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result represents the outcome of handling an action.
type Result struct {
	Status ResultStatus
	Error  error

	// Message is shown in the echo area.
	Message string

	// Data holds handler-specific return values.
	Data map[string]any
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool { return r.Status == StatusOK }

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool { return r.Status == StatusError }

// Success creates a successful result.
func Success() Result { return Result{Status: StatusOK} }

// SuccessWithMessage creates a successful result with a message.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// NoOp creates a no-operation result.
func NoOp() Result { return Result{Status: StatusNoOp} }

// NoOpWithMessage creates a no-operation result with a message, as in
// "Beginning of buffer".
func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result { return Result{Status: StatusError, Error: err} }

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{Status: StatusError, Error: fmt.Errorf(format, args...)}
}

// Cancelled creates a cancelled result.
func Cancelled() Result { return Result{Status: StatusCancelled, Message: "Quit"} }

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithData returns a copy of the result with a value added.
func (r Result) WithData(key string, value any) Result {
	m := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		m[k] = v
	}
	m[key] = value
	r.Data = m
	return r
}

// GetData retrieves a value from the result data.
func (r Result) GetData(key string) (any, bool) {
	v, ok := r.Data[key]
	return v, ok
}

// GetDataInt retrieves an int value from the result data.
func (r Result) GetDataInt(key string) int {
	if v, ok := r.GetData(key); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}

// Text returns the line to show for the result: the error text for
// failures, the message otherwise.
func (r Result) Text() string {
	if r.Status == StatusError && r.Error != nil {
		if r.Message != "" {
			return r.Message + ": " + r.Error.Error()
		}
		return r.Error.Error()
	}
	return r.Message
}
