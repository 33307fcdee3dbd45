package domain

import (
	stderr "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// ErrRecordNotFound keeps usecases independent of the ORM's not-found error.
var ErrRecordNotFound = errors.New("record not found")

var (
	ErrNotFound = DetailedError{
		IDField:         "NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "The requested resource could not be found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrUnauthorized = DetailedError{
		IDField:         "UNAUTHORIZED",
		StatusDescField: http.StatusText(http.StatusUnauthorized),
		ErrorField:      "The request could not be authorized",
		StatusCodeField: http.StatusUnauthorized,
	}
	ErrForbidden = DetailedError{
		IDField:         "FORBIDDEN",
		StatusDescField: http.StatusText(http.StatusForbidden),
		ErrorField:      "The requested action was forbidden",
		StatusCodeField: http.StatusForbidden,
	}
	ErrTooManyRequests = DetailedError{
		IDField:         "TOO_MANY_REQUESTS",
		StatusDescField: http.StatusText(http.StatusTooManyRequests),
		ErrorField:      "Too many requests, please try again later",
		StatusCodeField: http.StatusTooManyRequests,
	}
	ErrInternalServerError = DetailedError{
		IDField:         "INTERNAL_SERVER_ERROR",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "An internal server error occurred, please contact the system administrator",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrBadRequest = DetailedError{
		IDField:         "BAD_REQUEST",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "The request was malformed or contained invalid parameters",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrConflict = DetailedError{
		IDField:         "CONFLICT",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "The resource could not be created due to a conflict",
		StatusCodeField: http.StatusConflict,
	}
)

// DetailedError is the single error shape returned over HTTP.
type DetailedError struct {
	// IDField identifies the error in application logic, e.g. "DRAFT_NOT_FOUND".
	IDField string `json:"id,omitempty"`

	StatusCodeField int    `json:"code,omitempty"`
	StatusDescField string `json:"status,omitempty"`
	RIDField        string `json:"request,omitempty"`

	// ReasonField is a human-readable cause, e.g. "campaign 1234 is not active".
	ReasonField string `json:"reason,omitempty"`

	// DebugField is never meant for end users.
	DebugField string `json:"debug,omitempty"`

	ErrorField   string                 `json:"message"`
	DetailsField map[string]interface{} `json:"details,omitempty"`

	err error
}

func (e *DetailedError) StackTrace() (trace errors.StackTrace) {
	if e.err == nil {
		return nil
	}
	if st := stackTracer(nil); stderr.As(e.err, &st) {
		trace = st.StackTrace()
	}
	return
}

func (e DetailedError) Unwrap() error {
	return e.err
}

func (e DetailedError) WithWrap(err error) *DetailedError {
	e.err = err
	return &e
}

// WithTrace wraps err and records a stack trace if it does not carry one.
func (e DetailedError) WithTrace(err error) *DetailedError {
	if st := stackTracer(nil); !stderr.As(err, &st) {
		err = errors.WithStack(err)
	}
	e.err = err
	return &e
}

// Is matches on identity fields so copies made by the With* builders still
// satisfy errors.Is against the declared sentinel.
func (e DetailedError) Is(err error) bool {
	var te DetailedError
	switch v := err.(type) {
	case DetailedError:
		te = v
	case *DetailedError:
		if v == nil {
			return false
		}
		te = *v
	default:
		return false
	}
	return e.IDField == te.IDField && e.StatusCodeField == te.StatusCodeField
}

func (e DetailedError) Status() string                  { return e.StatusDescField }
func (e DetailedError) ID() string                      { return e.IDField }
func (e DetailedError) Error() string                   { return e.ErrorField }
func (e DetailedError) RequestID() string               { return e.RIDField }
func (e DetailedError) Reason() string                  { return e.ReasonField }
func (e DetailedError) Debug() string                   { return e.DebugField }
func (e DetailedError) Details() map[string]interface{} { return e.DetailsField }
func (e DetailedError) StatusCode() int                 { return e.StatusCodeField }

func (e DetailedError) WithReason(reason string) *DetailedError {
	e.ReasonField = reason
	return &e
}

func (e DetailedError) WithReasonf(reason string, args ...interface{}) *DetailedError {
	return e.WithReason(fmt.Sprintf(reason, args...))
}

func (e DetailedError) WithRequestID(rid string) *DetailedError {
	e.RIDField = rid
	return &e
}

func (e DetailedError) WithDetail(key string, detail interface{}) *DetailedError {
	details := make(map[string]interface{}, len(e.DetailsField)+1)
	for k, v := range e.DetailsField {
		details[k] = v
	}
	details[key] = detail
	e.DetailsField = details
	return &e
}

func (e DetailedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "id=%s\n", e.IDField)
			_, _ = fmt.Fprintf(s, "rid=%s\n", e.RIDField)
			_, _ = fmt.Fprintf(s, "error=%s\n", e.ErrorField)
			_, _ = fmt.Fprintf(s, "reason=%s\n", e.ReasonField)
			_, _ = fmt.Fprintf(s, "details=%+v\n", e.DetailsField)
			_, _ = fmt.Fprintf(s, "debug=%s\n", e.DebugField)
			e.StackTrace().Format(s, verb)
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.ErrorField)
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.ErrorField)
	}
}

// AsDetailedError finds a DetailedError in err's chain.
func AsDetailedError(err error) (*DetailedError, bool) {
	var pe *DetailedError
	if stderr.As(err, &pe) && pe != nil {
		return pe, true
	}
	var ve DetailedError
	if stderr.As(err, &ve) {
		return &ve, true
	}
	return nil, false
}

// ToDefaultError converts any error into a DetailedError, reading whatever
// carrier interfaces the chain implements.
func ToDefaultError(err error, requestID string) *DetailedError {
	de := &DetailedError{
		RIDField:        requestID,
		StatusCodeField: http.StatusInternalServerError,
		ErrorField:      err.Error(),
		err:             err,
	}

	if c := ReasonCarrier(nil); stderr.As(err, &c) {
		de.ReasonField = c.Reason()
	}
	if c := DetailsCarrier(nil); stderr.As(err, &c) && c.Details() != nil {
		de.DetailsField = c.Details()
	}
	if c := StatusCodeCarrier(nil); stderr.As(err, &c) && c.StatusCode() != 0 {
		de.StatusCodeField = c.StatusCode()
	}
	if c := IDCarrier(nil); stderr.As(err, &c) {
		de.IDField = c.ID()
	}
	de.StatusDescField = http.StatusText(de.StatusCodeField)
	return de
}

type StatusCodeCarrier interface {
	StatusCode() int
}

type ReasonCarrier interface {
	Reason() string
}

type DetailsCarrier interface {
	Details() map[string]interface{}
}

type IDCarrier interface {
	ID() string
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}
