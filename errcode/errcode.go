package errcode

// Code is a stable error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	MissingArgument Code = "missing_argument" // command needs more tokens
	UnknownCommand  Code = "unknown_command"
	UnknownVolume   Code = "unknown_volume"
	DeviceError     Code = "device_error" // storage collaborator failure
	AlreadyActive   Code = "already_active"
	NotActive       Code = "not_active"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Wrap builds an E with a cause attached.
func Wrap(c Code, op string, err error) *E {
	return &E{C: c, Op: op, Err: err}
}
