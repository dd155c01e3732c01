package contact

import (
	"sync"
	"time"
)

// SuccessDisplay is how long the "message sent" notice stays up.
const SuccessDisplay = 4 * time.Second

// Indicator is a flag that clears itself Delay after the last Show.
type Indicator struct {
	mu      sync.Mutex
	visible bool
	gen     int
	timer   *time.Timer
	Delay   time.Duration
}

func NewIndicator() *Indicator {
	return &Indicator{Delay: SuccessDisplay}
}

func (i *Indicator) Show() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.visible = true
	i.gen++
	gen := i.gen
	if i.timer != nil {
		i.timer.Stop()
	}
	i.timer = time.AfterFunc(i.Delay, func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		if i.gen == gen {
			i.visible = false
		}
	})
}

func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}

// Stop cancels a pending clear, used when the session goes away.
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.timer != nil {
		i.timer.Stop()
	}
}
