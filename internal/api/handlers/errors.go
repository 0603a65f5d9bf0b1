package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rarorac-lab/internal/api/models"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/session"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondError maps domain errors onto the JSON error envelope.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		writeError(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}

func wantsPercent(c *gin.Context) bool {
	return c.Query("units") == "percent"
}

func wantsCSV(c *gin.Context) bool {
	return c.Query("format") == "csv"
}
