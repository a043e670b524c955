package api

import (
	"context"
	"errors"
	"net/http"

	sdkerrors "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"

	academytypes "github.com/stakedlearn/stakedlearn/x/academy/types"
)

var kindStatus = map[academytypes.ErrorKind]int{
	academytypes.KindAuthorization: http.StatusForbidden,
	academytypes.KindNotFound:      http.StatusNotFound,
	academytypes.KindConflict:      http.StatusConflict,
	academytypes.KindValidation:    http.StatusBadRequest,
	academytypes.KindPrecondition:  http.StatusUnprocessableEntity,
	academytypes.KindCustody:       http.StatusPaymentRequired,
	academytypes.KindInternal:      http.StatusInternalServerError,
}

// StatusForError maps an action error to its HTTP status.
func StatusForError(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusRequestTimeout
	}
	if status, ok := kindStatus[academytypes.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewErrorResponse builds the error body for err. Internal errors do not
// leak their message.
func NewErrorResponse(err error) ErrorResponse {
	kind := academytypes.KindOf(err)
	codespace, code, msg := sdkerrors.ABCIInfo(err, false)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		msg = "request timeout"
		kind = "timeout"
	case kind == academytypes.KindInternal:
		msg = "internal error"
	}
	return ErrorResponse{
		Error:     msg,
		Code:      code,
		Codespace: codespace,
		Kind:      string(kind),
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("action failed", "path", c.FullPath(), "error", err, "request_id", c.GetString(requestIDKey))
	}
	c.AbortWithStatusJSON(status, NewErrorResponse(err))
}

func (s *Server) badRequest(c *gin.Context, format string, args ...interface{}) {
	s.writeError(c, academytypes.ErrInvalidInput.Wrapf(format, args...))
}
