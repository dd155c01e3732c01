package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Clawzd/portfolio/internal/contact"
)

const contactThanks = "Thank you for your message! I'll get back to you soon."

func (h *handler) contactForm(c *gin.Context) {
	s := h.session(c)
	c.HTML(http.StatusOK, "contact.html", h.page(s, gin.H{
		"title":  "Contact Me",
		"form":   contact.Form{},
		"errors": map[string]string{},
		"sent":   s.Indicator.Visible(),
	}))
}

// submitContact answers the HTMX form with a fragment: the form again with
// inline errors, or the success notice.
func (h *handler) submitContact(c *gin.Context) {
	s := h.session(c)
	var form contact.Form
	rid := GetRequestID(c.Request.Context())
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("[contact] id=%s bad form from %s: %v", rid, VisitorID(c), err)
	}

	_, err := h.deps.Contact.Submit(c.Request.Context(), s.Store, VisitorID(c), form)
	var invalid *contact.ValidationError
	switch {
	case errors.As(err, &invalid):
		log.Printf("[contact] id=%s rejected: %v", rid, invalid)
		c.HTML(http.StatusOK, "contact.html", h.page(s, gin.H{
			"title":  "Contact Me",
			"form":   form,
			"errors": errorMap(invalid.Errors),
		}))
	case err != nil:
		log.Printf("[contact] id=%s submit failed: %v", rid, err)
		c.HTML(http.StatusOK, "contact-error.html", h.page(s, gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		}))
	default:
		s.Indicator.Show()
		c.HTML(http.StatusOK, "contact-success.html", h.page(s, gin.H{
			"success": contactThanks,
		}))
	}
}

func errorMap(errs contact.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for f, msg := range errs {
		out[string(f)] = msg
	}
	return out
}

type fieldResult struct {
	State contact.FieldState `json:"state"`
	Error string             `json:"error,omitempty"`
}

// validateContact replays the fields the visitor has edited, so the page can
// colour each field and enable the submit button. blur=1 shows all errors.
func (h *handler) validateContact(c *gin.Context) {
	var form contact.Form
	_ = c.ShouldBind(&form)

	tracker := contact.NewTracker()
	for _, name := range c.PostFormArray("touched") {
		field := contact.Field(name)
		tracker.Change(field, form.Value(field))
	}
	if c.PostForm("blur") == "1" {
		tracker.Blur()
	}

	fields := make(map[contact.Field]fieldResult, len(contact.Fields))
	for _, f := range contact.Fields {
		fields[f] = fieldResult{State: tracker.State(f), Error: tracker.Error(f)}
	}
	c.JSON(http.StatusOK, gin.H{
		"canSubmit": contact.CanSubmit(form),
		"valid":     tracker.Valid(),
		"fields":    fields,
	})
}

func (h *handler) contactStatus(c *gin.Context) {
	s := h.session(c)
	c.JSON(http.StatusOK, gin.H{"sent": s.Indicator.Visible()})
}

func (h *handler) apiContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.session(c)
	msg, err := h.deps.Contact.Submit(c.Request.Context(), s.Store, VisitorID(c), form)
	var invalid *contact.ValidationError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": invalid.Errors})
		return
	}
	if err != nil {
		log.Printf("[contact] id=%s submit failed: %v", GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.Indicator.Show()
	c.JSON(http.StatusCreated, gin.H{"message": msg, "success": contactThanks})
}
