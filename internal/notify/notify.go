package notify

import (
	"sync"
	"time"

	"github.com/Elyot88/Image-QR-weblink/internal/logger"
)

// DefaultTTL is how long a notification stays visible before auto-clearing.
const DefaultTTL = 5 * time.Second

type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Error   Kind = "error"
)

// Notification is a transient user-facing message.
type Notification struct {
	Text string
	Kind Kind
}

// Center holds at most one live notification. Every Show replaces the
// current one and restarts the expiry timer. A generation counter makes
// sure an older timer that fires late can never clear a newer message.
type Center struct {
	mu       sync.Mutex
	current  *Notification
	gen      uint64
	timer    *time.Timer
	ttl      time.Duration
	logger   *logger.Logger
	onChange func(*Notification)
}

// NewCenter creates a Center with the given expiry. A zero ttl means
// DefaultTTL. onChange, if non-nil, is invoked with the new notification
// (or nil on clear) so the UI can repaint; it runs under the Center's lock
// and must not call back into the Center.
func NewCenter(ttl time.Duration, log *logger.Logger, onChange func(*Notification)) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:      ttl,
		logger:   log,
		onChange: onChange,
	}
}

// Show replaces any current notification and restarts the auto-clear timer.
func (c *Center) Show(text string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	gen := c.gen

	if c.timer != nil {
		c.timer.Stop()
	}

	c.current = &Notification{Text: text, Kind: kind}
	c.log(text, kind)
	if c.onChange != nil {
		c.onChange(c.current)
	}

	c.timer = time.AfterFunc(c.ttl, func() {
		c.expire(gen)
	})
}

// Clear removes the current notification immediately.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
	if c.onChange != nil {
		c.onChange(nil)
	}
}

// Current returns the live notification, or nil.
func (c *Center) Current() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// expire clears the notification only if no newer Show or Clear happened
// since the timer was armed.
func (c *Center) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	c.current = nil
	c.timer = nil
	if c.onChange != nil {
		c.onChange(nil)
	}
}

func (c *Center) log(text string, kind Kind) {
	if c.logger == nil {
		return
	}
	switch kind {
	case Error:
		c.logger.Error("%s", text)
	case Success:
		c.logger.Info("%s", text)
	default:
		c.logger.Info("%s", text)
	}
}
