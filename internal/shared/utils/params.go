package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/id"
)

// ParseSIDParam parses and validates a Stripe-style prefixed ID from a URL path parameter.
// entityName is used in error messages (e.g., "ticket", "schema").
func ParseSIDParam(c *gin.Context, paramName, prefix, entityName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}

	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(
			fmt.Sprintf("invalid %s ID format, expected %s_xxxxx", entityName, prefix),
		)
	}

	return sid, nil
}

// ActorID returns the authenticated user id placed in the context by the auth middleware.
func ActorID(c *gin.Context) (string, error) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return "", errors.NewUnauthorizedError("user not authenticated")
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		return "", errors.NewUnauthorizedError("user not authenticated")
	}
	return userID, nil
}
