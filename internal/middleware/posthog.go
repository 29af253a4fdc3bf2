package middleware

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils"
	"github.com/gin-gonic/gin"
)

// practiceEvents names the product events worth tracking by route template.
// Routes not listed fall back to a name derived from the template.
var practiceEvents = map[string]string{
	"POST /api/v1/matters":                           "matter_created",
	"POST /api/v1/matters/:matterID/move":            "matter_moved",
	"POST /api/v1/matters/bulk/stage":                "matters_bulk_staged",
	"POST /api/v1/matters/bulk/lawyer":               "matters_bulk_assigned",
	"POST /api/v1/billing/invoices":                  "invoice_finalized",
	"PATCH /api/v1/invoices/:invoiceID/status":       "invoice_status_changed",
	"POST /api/v1/intake/classify":                   "intake_classified",
	"POST /api/v1/intake/manual":                     "intake_manual",
	"POST /api/v1/intake/sessions/:sessionID/commit": "intake_committed",
	"POST /api/v1/views/handoffs/:offerID":           "handoff_resolved",
	"GET /api/v1/reports/export":                     "report_exported",
}

// PosthogMiddleware reports successful authenticated API calls as product
// events keyed by the session user.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		route := c.FullPath()
		if route == "" || len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		props := map[string]any{
			"route":       route,
			"status_code": c.Writer.Status(),
		}
		for _, p := range c.Params {
			props[paramProperty(p.Key)] = p.Value
		}
		posthogClient.Enqueue(userID, eventName(c.Request.Method, route), props)
	}
}

func eventName(method, route string) string {
	if name, ok := practiceEvents[method+" "+route]; ok {
		return name
	}
	name := strings.ToLower(method) + "_" + strings.TrimPrefix(route, "/api/v1/")
	name = strings.NewReplacer("/", "_", ":", "", "*", "", "-", "_").Replace(name)
	return strings.TrimSuffix(name, "_")
}

// paramProperty turns a path parameter such as matterID into matter_id.
// A run of capitals stays one word.
func paramProperty(key string) string {
	runes := []rune(key)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
