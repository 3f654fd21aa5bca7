package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
)

// WithUser attaches the authenticated user's identity to the context.
func WithUser(ctx context.Context, userID int64, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUserIDFromContext extracts the authenticated user ID from the context.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SendValidationError sends a 400 with the offending detail message.
func SendValidationError(c echo.Context, message, details string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Details: details})
}

// SendClientError sends a 400 client error response.
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// SendServerError sends a 500 server error response.
func SendServerError(c echo.Context, message, details string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message, Details: details})
}

// SendNotFoundError sends a 404 response naming the missing resource.
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("%s not found", resource)})
}

// SendUnauthorizedError sends a 401 response.
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized access"})
}

// RequireNonBlank validates that a field is present and non-blank after
// trimming. The label is surfaced verbatim in the message
// ("Shipping Address is required.").
func RequireNonBlank(value, label string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: label, Message: fmt.Sprintf("%s is required.", label)}
	}
	return nil
}

// FieldLabel turns a snake_case field name into the title-cased label used in
// validation messages.
func FieldLabel(field string) string {
	parts := strings.Split(field, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
