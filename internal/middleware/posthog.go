package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voyago/travel_proposal_app/internal/utils"
)

// untrackedPaths are probes and static endpoints excluded from analytics.
var untrackedPaths = map[string]bool{
	"/health": true,
}

// PosthogMiddleware records one analytics event per successful authenticated
// API call, named after the matched route.
func PosthogMiddleware(client *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !client.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			// Anonymous traffic is not tracked.
			return
		}

		event := routeEventName(c.FullPath())
		if event == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				params[p.Key] = p.Value
			}
			props["params"] = params
		}

		client.Enqueue(userID, event, props)
	}
}

// routeEventName turns a matched route into an event name, e.g.
// "/api/v1/proposals/:proposalID/send" becomes "api_v1_proposals_:proposalID_send".
func routeEventName(fullPath string) string {
	return strings.ReplaceAll(strings.TrimPrefix(fullPath, "/"), "/", "_")
}
