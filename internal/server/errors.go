package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
	invitationdomain "github.com/leavehub/leavehub/internal/invitation/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	importdomain "github.com/leavehub/leavehub/internal/memberimport/domain"
	organizationdomain "github.com/leavehub/leavehub/internal/organization/domain"
	subscriptiondomain "github.com/leavehub/leavehub/internal/subscription/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, subscriptiondomain.ErrCheckoutFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "checkout_failed",
			Message: "checkout provider rejected the request",
		}
	case errors.Is(err, subscriptiondomain.ErrProviderNotFound),
		errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, memberdomain.ErrInvalidOrganization),
		errors.Is(err, memberdomain.ErrInvalidName),
		errors.Is(err, memberdomain.ErrInvalidStatus),
		errors.Is(err, memberdomain.ErrInvalidMemberIDs),
		errors.Is(err, departmentdomain.ErrInvalidOrganization),
		errors.Is(err, departmentdomain.ErrInvalidName),
		errors.Is(err, holidaydomain.ErrInvalidOrganization),
		errors.Is(err, holidaydomain.ErrInvalidName),
		errors.Is(err, allowancedomain.ErrInvalidOrganization),
		errors.Is(err, allowancedomain.ErrInvalidName),
		errors.Is(err, allowancedomain.ErrInvalidUnit),
		errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, invitationdomain.ErrInvalidEmail),
		errors.Is(err, invitationdomain.ErrInvalidCode),
		errors.Is(err, subscriptiondomain.ErrInvalidOrganization),
		errors.Is(err, subscriptiondomain.ErrInvalidPlan),
		errors.Is(err, importdomain.ErrInvalidOrganization),
		errors.Is(err, importdomain.ErrUnreadableFile),
		errors.Is(err, importdomain.ErrTooManyRows),
		errors.Is(err, importdomain.ErrInvalidRowsRemain),
		errors.Is(err, importdomain.ErrWrongStep),
		errors.Is(err, importdomain.ErrWizardComplete):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, departmentdomain.ErrDepartmentExists),
		errors.Is(err, holidaydomain.ErrHolidayExists),
		errors.Is(err, allowancedomain.ErrAllowanceTypeExists):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, memberdomain.ErrNotFound),
		errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, importdomain.ErrSessionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
