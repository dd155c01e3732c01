package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Clawzd/portfolio/internal/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// live pushes the caller's theme and name changes to every open tab.
func (h *handler) live(c *gin.Context) {
	id := VisitorID(c)
	out := make(chan events.Event, 16)

	// Subscribed before the upgrade so nothing published after the
	// handshake is missed.
	unsubscribe := h.deps.Bus.Subscribe("", func(e events.Event) {
		if e.Visitor != id {
			return
		}
		select {
		case out <- e:
		default:
			log.Printf("[live] dropping %s event for %s", e.Topic, id)
		}
	})
	defer unsubscribe()
	stopWatching := h.session(c).Watch()
	defer stopWatching()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[live] id=%s websocket upgrade: %v", GetRequestID(c.Request.Context()), err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[live] websocket read: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case e := <-out:
			if err := conn.WriteJSON(e); err != nil {
				log.Printf("[live] websocket write: %v", err)
				return
			}
		}
	}
}
