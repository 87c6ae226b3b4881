package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quire/internal/quire"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondServiceError maps service errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var dup *quire.DuplicateBlockError
	switch {
	case errors.As(err, &dup):
		RespondError(c, http.StatusConflict, "duplicate_block_id", err)
	case errors.Is(err, quire.ErrDocumentNotFound), errors.Is(err, quire.ErrBlockNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, quire.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, quire.ErrUnsupportedMedia):
		RespondError(c, http.StatusUnsupportedMediaType, "unsupported_media_type", err)
	case errors.Is(err, quire.ErrGeneratorUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "generator_unavailable", err)
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
