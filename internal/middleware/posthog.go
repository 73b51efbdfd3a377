package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains route patterns that should not be tracked.
var pathsToSkip = map[string]bool{
	"/health":       true,
	"/swagger/*any": true,
}

// PosthogMiddleware records one analytics event per successful authenticated request.
// Event names are derived from the route pattern, e.g. "/api/v1/advisor/ask" -> "api_v1_advisor_ask".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if pathsToSkip[c.FullPath()] || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.NewReplacer("/", "_", ":", "").Replace(eventName)
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		posthogClient.Enqueue(userID, eventName, props)
	}
}
