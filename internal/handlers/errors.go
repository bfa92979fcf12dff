package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error       string                `json:"error"`
	Violations  []apperrors.Violation `json:"violations,omitempty"`
	Outstanding string                `json:"outstanding,omitempty"`
}

// respondError maps a service error to an HTTP status and writes the body.
// Client errors are logged at warn level, everything else at error level.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status, body := classifyError(err, action)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
	} else {
		logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

func classifyError(err error, action string) (int, errorResponse) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, errorResponse{Error: err.Error(), Violations: validationErr.Violations}
	}

	var overpayment *apperrors.OverpaymentError
	if errors.As(err, &overpayment) {
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Outstanding: overpayment.Outstanding.StringFixed(2)}
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, apperrors.ErrIllegalTransition),
		errors.Is(err, apperrors.ErrDuplicatePosting),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrCycle),
		errors.Is(err, apperrors.ErrHierarchyDepth):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		return appErr.Code, errorResponse{Error: appErr.Error()}
	}

	// Storage, allocation and account configuration failures are not the caller's fault
	return http.StatusInternalServerError, errorResponse{Error: "Failed to " + action}
}
