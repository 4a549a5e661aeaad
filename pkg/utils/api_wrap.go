package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceIDOf(c *gin.Context) string {
	traceID, _ := c.Get("trace_id")
	id, _ := traceID.(string)
	return id
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceIDOf(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceIDOf(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	var partial *PartialReconciliationError

	switch {
	case errors.Is(err, ErrLocationRequired):
		RespondError(c, http.StatusUnprocessableEntity, "A GPS fix is required for this transition")
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, "Missing or invalid fields")
	case errors.Is(err, ErrVisitNotFound):
		RespondError(c, http.StatusNotFound, "Visit not found")
	case errors.Is(err, ErrLocationNotFound):
		RespondError(c, http.StatusNotFound, "Location not found")
	case errors.Is(err, ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "Transition not allowed from the current status")
	case errors.Is(err, ErrVisitAlreadyFinal):
		RespondError(c, http.StatusConflict, "Visit is already completed or rejected")
	case errors.Is(err, ErrVisitConflict):
		RespondError(c, http.StatusConflict, "Visit was updated by someone else, refresh and retry")
	case errors.Is(err, ErrAgentBusy):
		RespondError(c, http.StatusConflict, "Agent already has a visit in progress")
	case errors.As(err, &partial):
		// Never swallow a half-applied plan; the client must re-sync.
		c.JSON(http.StatusConflict, APIResponse{
			Status:  "error",
			Code:    http.StatusConflict,
			Message: "Plan partially applied, re-sync required",
			TraceID: traceIDOf(c),
			Data: gin.H{
				"deleted": partial.Deleted,
				"added":   partial.Added,
			},
		})
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
