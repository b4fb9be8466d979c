package service

// Error is a domain error returned by service methods and middleware.
// Handlers map these to the caller-facing JSON envelope; Context fields are
// serialized alongside the message, Err never is.
type Error struct {
	Kind    ErrorKind
	Message string
	Context map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// With attaches a context field that is included in the error envelope.
func (e *Error) With(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{}, 1)
	}
	e.Context[key] = value
	return e
}

// ErrorKind classifies domain errors for HTTP status mapping.
type ErrorKind int

const (
	ErrBadRequest   ErrorKind = iota // 400
	ErrUnauthorized                  // 401
	ErrNotFound                      // 404
	ErrInternal                      // 500
)

func NewBadRequest(message string) *Error {
	return &Error{Kind: ErrBadRequest, Message: message}
}

func NewUnauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func NewInternal(message string, err error) *Error {
	return &Error{Kind: ErrInternal, Message: message, Err: err}
}
