package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Clawzd/portfolio/internal/session"
	"github.com/Clawzd/portfolio/internal/visitor"
)

// TZOffsetCookie carries the browser's Date.getTimezoneOffset(), minutes
// behind UTC (UTC+3 is -180), so greetings follow the visitor's clock.
const TZOffsetCookie = "tz_offset"

const maxTZOffset = 14 * 60

// Section is one of the navigation circles on the landing page.
type Section struct {
	Title string
	Path  string
	Icon  string
}

var sections = []Section{
	{Title: "Recent Projects", Path: "/projects?category=recent", Icon: "code"},
	{Title: "Upcoming Projects", Path: "/projects?category=upcoming", Icon: "rocket"},
}

func (h *handler) index(c *gin.Context) {
	s := h.session(c)
	name := visitor.Name(c.Request.Context(), s.Store)

	c.HTML(http.StatusOK, "index.html", h.page(s, gin.H{
		"title":    "Ali's Portfolio",
		"welcome":  visitor.Welcome(name, h.localNow(c)),
		"askName":  name == "",
		"about":    h.about,
		"sections": sections,
	}))
}

func (h *handler) saveName(c *gin.Context) {
	s := h.session(c)
	visitor.SaveManualName(c.Request.Context(), s.Store, c.PostForm("name"))

	if !isHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.renderWelcome(c, s)
}

// welcome re-renders the greeting after another tab changed the name.
func (h *handler) welcome(c *gin.Context) {
	h.renderWelcome(c, h.session(c))
}

func (h *handler) renderWelcome(c *gin.Context, s *session.Session) {
	name := visitor.Name(c.Request.Context(), s.Store)
	c.HTML(http.StatusOK, "welcome.html", h.page(s, gin.H{
		"welcome": visitor.Welcome(name, h.localNow(c)),
		"askName": name == "",
	}))
}

// localNow is the current time in the visitor's zone, or the server's when
// the browser has not reported one yet.
func (h *handler) localNow(c *gin.Context) time.Time {
	now := h.deps.Now()
	raw, err := c.Cookie(TZOffsetCookie)
	if err != nil {
		return now
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < -maxTZOffset || minutes > maxTZOffset {
		return now
	}
	return now.In(time.FixedZone("visitor", -minutes*60))
}
