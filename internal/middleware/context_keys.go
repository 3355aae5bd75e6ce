package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated user's ID.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID. It checks the Gin
// context first, then the request context where AuthMiddleware stores it.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(userIDKey)); exists {
		if userID, ok := val.(string); ok {
			return userID, true
		}
		return "", false
	}
	if val := c.Request.Context().Value(userIDKey); val != nil {
		if userID, ok := val.(string); ok {
			return userID, true
		}
	}
	return "", false
}
