package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/resume-screener/internal/ingestion"
	"github.com/justsurfingit/resume-screener/internal/resume"
	"github.com/justsurfingit/resume-screener/internal/services"
	"github.com/sirupsen/logrus"
)

// respondError maps service errors onto status codes. Anything unexpected
// is logged and answered with a generic 500.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	status, msg := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, services.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidReference):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrDuplicate):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, resume.ErrNoValidJSON):
		status, msg = http.StatusUnprocessableEntity, "The model did not return a valid resume summary"
	case errors.Is(err, services.ErrUpstream):
		status, msg = http.StatusBadGateway, "Resume analysis service is unavailable"
	case errors.Is(err, ingestion.ErrTooLarge):
		status, msg = http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, ingestion.ErrUnsupportedType),
		errors.Is(err, ingestion.ErrEmptyDocument),
		errors.Is(err, ingestion.ErrUnreadable):
		status, msg = http.StatusBadRequest, err.Error()
	}

	entry := log.WithError(err).WithFields(logrus.Fields{
		"status": status,
		"path":   c.FullPath(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
}

// pathID parses the :id segment. It writes the 400 itself and returns false
// when the id is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// queryJobID reads the optional ?jobId= filter.
func queryJobID(c *gin.Context) (*uint, bool) {
	raw := c.Query("jobId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid jobId"})
		return nil, false
	}
	v := uint(id)
	return &v, true
}
