package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key under which the auth middleware stores the
// authenticated user's ID.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user's ID. Handlers read
// it from the Gin context; the request context is checked as well so code
// running outside a Gin handler still resolves the user.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		if fromReq := c.Request.Context().Value(userIDKey); fromReq != nil {
			return fromReq.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}
