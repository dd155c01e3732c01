// Package web serves the portfolio pages, their HTMX fragments and the
// small JSON API behind them.
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Clawzd/portfolio/internal/contact"
	"github.com/Clawzd/portfolio/internal/events"
	"github.com/Clawzd/portfolio/internal/github"
	"github.com/Clawzd/portfolio/internal/session"
	"github.com/Clawzd/portfolio/internal/weather"
)

// Repositories is what the GitHub section needs.
type Repositories interface {
	Overview(ctx context.Context) github.Overview
	User() string
}

type Deps struct {
	ServiceName string
	Version     string

	Sessions *session.Manager
	Bus      *events.Bus
	Contact  *contact.Service
	Weather  *weather.Widget
	GitHub   Repositories
	Pinger   Pinger

	// About is markdown rendered on the landing page.
	About string
	// AllowOrigins for /api; empty allows any origin.
	AllowOrigins []string
	// Middleware runs before every route.
	Middleware []gin.HandlerFunc

	Now func() time.Time
}

type handler struct {
	deps  Deps
	about template.HTML
}

// NewRouter builds the engine with every public route registered. Callers
// may add more routes (the admin area) before serving it.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	about, err := renderMarkdown(deps.About)
	if err != nil {
		return nil, err
	}
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(deps.Middleware...)
	r.SetHTMLTemplate(tmpl)

	h := &handler{deps: deps, about: about}

	health := NewHealthHandler(deps.ServiceName, deps.Version, deps.Pinger)
	health.RegisterRoutes(r)

	site := r.Group("/")
	site.Use(VisitorMiddleware())

	site.GET("/", h.index)
	site.POST("/name", h.saveName)
	site.GET("/welcome", h.welcome)

	site.GET("/projects", h.projectGallery)

	site.GET("/contact-form", h.contactForm)
	site.POST("/contact", h.submitContact)
	site.POST("/contact/validate", h.validateContact)
	site.GET("/contact/status", h.contactStatus)

	site.GET("/weather", h.showWeather)
	site.POST("/weather", h.searchWeather)
	site.GET("/github", h.showGitHub)

	site.POST("/theme/toggle", h.toggleTheme)
	site.GET("/live", h.live)

	api := r.Group("/api")
	api.Use(corsMiddleware(deps.AllowOrigins), VisitorMiddleware())
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.GET("/projects", h.listProjects)
	api.POST("/projects", h.addProject)
	api.PUT("/projects/:id", h.updateProject)
	api.POST("/contact", h.apiContact)
	api.GET("/theme", h.getTheme)

	return r, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// session returns the caller's session; VisitorMiddleware must have run.
func (h *handler) session(c *gin.Context) *session.Session {
	return h.deps.Sessions.Get(c.Request.Context(), VisitorID(c))
}

// page adds the theme every full page and fragment is rendered with.
func (h *handler) page(s *session.Session, data gin.H) gin.H {
	t := s.Theme.Current()
	data["theme"] = t
	data["palette"] = t.Palette()
	return data
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
