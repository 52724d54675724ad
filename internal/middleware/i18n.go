// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", resolveLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}

// resolveLanguage maps the first Accept-Language entry onto a supported locale.
func resolveLanguage(header, defaultLang string) string {
	if header == "" {
		return defaultLang
	}

	// Handle cases like "pt-BR,pt;q=0.9,en;q=0.8"
	langs := strings.Split(header, ",")
	firstLang := strings.TrimSpace(strings.Split(langs[0], ";")[0])
	switch firstLang {
	case "pt", "pt-BR", "pt_BR", "pt-PT":
		return "pt_BR"
	case "en", "en-US", "en-GB":
		return "en"
	default:
		return defaultLang
	}
}
