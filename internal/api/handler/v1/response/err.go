package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/htmf/hackathon-api/internal/domain"
)

// Err is the body of every error response.
type Err struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"-"`
	StatusText string `json:"status_text"`
	ErrorMsg   string `json:"message"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr writes err as JSON and aborts the chain. Server errors are
// logged with the underlying cause and rendered without it.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(err.Err))
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusBadRequest,
		StatusText: http.StatusText(http.StatusBadRequest),
		ErrorMsg:   err.Error(),
	}
}

func ErrInvalidToken(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusUnauthorized,
		StatusText: http.StatusText(http.StatusUnauthorized),
		ErrorMsg:   "invalid or missing token",
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusUnauthorized,
		StatusText: http.StatusText(http.StatusUnauthorized),
		ErrorMsg:   "email or password is incorrect",
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusForbidden,
		StatusText: http.StatusText(http.StatusForbidden),
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(entity, field string, value any) *Err {
	err := fmt.Errorf("%s with %s %v is not found", entity, field, value)

	return &Err{
		Err:        err,
		StatusCode: http.StatusNotFound,
		StatusText: http.StatusText(http.StatusNotFound),
		ErrorMsg:   err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusConflict,
		StatusText: http.StatusText(http.StatusConflict),
		ErrorMsg:   err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusInternalServerError,
		StatusText: http.StatusText(http.StatusInternalServerError),
		ErrorMsg:   "internal server error",
	}
}

// ErrFromDomain picks the response for err by its error kind. Anything
// outside the taxonomy is an internal error.
func ErrFromDomain(err error) *Err {
	var status int
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrAlreadyParticipating),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrDuplicatePending):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		return ErrInternalServerError(err)
	}

	return &Err{
		Err:        err,
		StatusCode: status,
		StatusText: http.StatusText(status),
		ErrorMsg:   publicMessage(err),
	}
}

// publicMessage drops the "a.b -> c.d -> " call chain from wrapped errors.
func publicMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, " -> "); i >= 0 {
		return msg[i+len(" -> "):]
	}

	return msg
}
