package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suPer8Hu/melvis/internal/assessment"
	"github.com/suPer8Hu/melvis/internal/chat"
	"github.com/suPer8Hu/melvis/internal/common"
)

// Error carries the HTTP status and envelope code for a failure.
type Error struct {
	Status int
	Code   int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(status, code int, msg string, err error) *Error {
	return &Error{Status: status, Code: code, Msg: msg, Err: err}
}

// From maps domain errors to their HTTP shape. Unknown errors become a
// generic 500 so internals never reach the client.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var verr *assessment.ValidationError
	switch {
	case errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, chat.ErrMessageTooLong):
		return New(http.StatusBadRequest, 10010, err.Error(), err)
	case errors.Is(err, chat.ErrInvalidSessionID):
		return New(http.StatusBadRequest, 10012, err.Error(), err)
	case errors.As(err, &verr):
		return New(http.StatusBadRequest, 10011, verr.Error(), err)
	case errors.Is(err, chat.ErrSessionOwnedByOtherUser):
		return New(http.StatusForbidden, 40301, "session belongs to another user", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return New(http.StatusNotFound, 40400, "not found", err)
	default:
		return New(http.StatusInternalServerError, 50001, "internal error", err)
	}
}

// Write sends err as a failure envelope.
func Write(c *gin.Context, err error) {
	e := From(err)
	common.Fail(c, e.Status, e.Code, e.Msg)
}
