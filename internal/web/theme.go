package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) getTheme(c *gin.Context) {
	t := h.session(c).Theme.Current()
	c.JSON(http.StatusOK, gin.H{"theme": t, "dark": t.IsDark(), "palette": t.Palette()})
}

// toggleTheme answers HTMX with a themeChanged event instead of a refresh;
// the page reloads once, whichever of that event and /live arrives first.
func (h *handler) toggleTheme(c *gin.Context) {
	t := h.session(c).Theme.Toggle(c.Request.Context())
	if isHTMX(c) {
		c.Header("HX-Trigger", fmt.Sprintf(`{"themeChanged":{"value":%q}}`, t))
	}
	c.JSON(http.StatusOK, gin.H{"theme": t, "dark": t.IsDark(), "palette": t.Palette()})
}
