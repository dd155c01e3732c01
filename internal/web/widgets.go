package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) showWeather(c *gin.Context) {
	s := h.session(c)
	view := h.deps.Weather.Show(c.Request.Context(), s.Store)
	c.HTML(http.StatusOK, "weather.html", h.page(s, gin.H{"weather": view}))
}

func (h *handler) searchWeather(c *gin.Context) {
	s := h.session(c)
	view := h.deps.Weather.Search(c.Request.Context(), s.Store, c.PostForm("city"))
	c.HTML(http.StatusOK, "weather.html", h.page(s, gin.H{"weather": view}))
}

func (h *handler) showGitHub(c *gin.Context) {
	s := h.session(c)
	overview := h.deps.GitHub.Overview(c.Request.Context())
	c.HTML(http.StatusOK, "github.html", h.page(s, gin.H{
		"github": overview,
		"user":   h.deps.GitHub.User(),
	}))
}
