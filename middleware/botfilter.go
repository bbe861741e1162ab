package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextIsBot is set to true for crawler user agents.
const ContextIsBot = "is_bot"

// botPatterns are known bot User-Agent substrings (lowercase).
var botPatterns = []string{
	"googlebot", "bingbot", "slurp", "duckduckbot",
	"baiduspider", "yandexbot", "facebookexternalhit",
	"twitterbot", "linkedinbot", "embedly", "applebot",
	"semrushbot", "ahrefsbot", "mj12bot", "dotbot",
	"petalbot", "bytespider", "headlesschrome",
}

// BotFilter flags crawler traffic so the ingestion handler can skip storing it
// while still answering normally.
func BotFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsBot(c.Request.UserAgent()) {
			c.Set(ContextIsBot, true)
		}
		c.Next()
	}
}

func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, pattern := range botPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}
