package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Clawzd/portfolio/internal/projects"
)

var sortOptions = []struct {
	Key   projects.SortKey
	Label string
}{
	{projects.SortDateDesc, "Newest first"},
	{projects.SortDateAsc, "Oldest first"},
	{projects.SortTitleAsc, "Title A-Z"},
	{projects.SortTitleDesc, "Title Z-A"},
}

type projectCard struct {
	projects.Project
	Key string
}

func cards(list []projects.Project) []projectCard {
	out := make([]projectCard, len(list))
	for i, p := range list {
		out[i] = projectCard{Project: p, Key: projects.Key(p, i)}
	}
	return out
}

func (h *handler) projectGallery(c *gin.Context) {
	s := h.session(c)
	q := projects.ParseQuery(c.Request.URL.Query())
	list := projects.Filter(projects.NewRepository(s.Store).List(c.Request.Context()), q)

	data := h.page(s, gin.H{
		"title":    "Projects",
		"query":    q,
		"projects": cards(list),
		"tags":     projects.AllTags,
		"levels":   projects.Levels,
		"sorts":    sortOptions,
	})
	if isHTMX(c) {
		c.HTML(http.StatusOK, "project-list.html", data)
		return
	}
	c.HTML(http.StatusOK, "projects.html", data)
}

func (h *handler) listProjects(c *gin.Context) {
	s := h.session(c)
	q := projects.ParseQuery(c.Request.URL.Query())
	list := projects.NewRepository(s.Store).List(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"projects": projects.Filter(list, q),
		"total":    len(list),
	})
}

func (h *handler) addProject(c *gin.Context) {
	var p projects.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.session(c)
	created, err := projects.NewRepository(s.Store).Add(c.Request.Context(), p)
	if err != nil {
		c.JSON(statusForProjectError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) updateProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	var p projects.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.session(c)
	updated, err := projects.NewRepository(s.Store).Update(c.Request.Context(), id, p)
	if err != nil {
		c.JSON(statusForProjectError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func statusForProjectError(err error) int {
	switch {
	case errors.Is(err, projects.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, projects.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
