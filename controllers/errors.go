package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/services"
)

// respondDBError converts a persistence failure into the uniform error
// envelope, distinguishing unique-constraint and foreign-key violations
// from transient connection-class failures (flagged retryable).
func respondDBError(c *gin.Context, err error, conflictMessage string) {
	if services.IsUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_EXISTS",
				"message": conflictMessage,
			},
		})
		return
	}
	if services.IsForeignKeyViolation(err) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DANGLING_REFERENCE",
				"message": "A referenced record does not exist",
			},
		})
		return
	}

	status := http.StatusInternalServerError
	retryable := isRetryable(err)
	if retryable {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":      "DATABASE_ERROR",
			"message":   "The operation could not be completed",
			"retryable": retryable,
		},
	})
}

// isRetryable reports whether the caller may safely resubmit the request
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "too many clients")
}

// respondLedgerError maps order ledger errors onto HTTP responses. Returns
// false when the error was not a known ledger error so the caller can fall
// back to the database mapping.
func respondLedgerError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		respondNotFound(c, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, services.ErrStudentNotFound):
		respondNotFound(c, "STUDENT_NOT_FOUND", "Student not found")
	case errors.Is(err, services.ErrServiceNotFound):
		respondNotFound(c, "SERVICE_NOT_FOUND", "Service not found")
	case errors.Is(err, services.ErrEmployeeNotFound):
		respondNotFound(c, "EMPLOYEE_NOT_FOUND", "Employee not found")
	case errors.Is(err, services.ErrReferrerNotFound):
		respondNotFound(c, "REFERRER_NOT_FOUND", "Referrer not found")
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": "Invalid status transition",
			},
		})
	case errors.Is(err, services.ErrDiscountExceedsTotal):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Discount cannot exceed the total price",
			},
		})
	case errors.Is(err, services.ErrNegativeAmount):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Money fields must not be negative",
			},
		})
	case errors.Is(err, services.ErrNotAssignedEmployee):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You are not assigned to this order",
			},
		})
	case errors.Is(err, services.ErrOrderHasPayments):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HAS_DEPENDENTS",
				"message": "Order has payment records and cannot be deleted",
			},
		})
	default:
		return false
	}
	return true
}

func respondNotFound(c *gin.Context, code, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": details,
		},
	})
}
