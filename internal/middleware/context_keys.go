package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated cashier/admin ID.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated cashier/admin ID from the
// Gin context. It returns the ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(userIDKey)
		if ctxVal != nil {
			if id, ok := ctxVal.(string); ok {
				return id, true
			}
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}
