package scanresult

import (
	"fmt"
	"sync"
	"time"

	"github.com/Elyot88/Image-QR-weblink/internal/logger"
	"github.com/Elyot88/Image-QR-weblink/internal/models"
	"github.com/Elyot88/Image-QR-weblink/internal/notify"
)

// DefaultRedirectDelay is the grace period between a successful match and
// opening the matched URL, giving the user time to start another scan.
const DefaultRedirectDelay = 2 * time.Second

// State of the controller's scan lifecycle.
type State int

const (
	Idle State = iota
	Evaluating
	MatchFound
	NoMatch
)

func (s State) String() string {
	switch s {
	case Evaluating:
		return "evaluating"
	case MatchFound:
		return "match_found"
	case NoMatch:
		return "no_match"
	default:
		return "idle"
	}
}

// Opener opens a URL in the user's browser.
type Opener func(url string) error

// Controller interprets scan responses. On a match it notifies the user
// and schedules a one-shot deferred navigation to the matched URL. At
// most one pending navigation exists; starting a new scan, resetting, or
// tearing down cancels it. A generation counter guarantees a timer armed
// for an older result can never fire against a newer one.
type Controller struct {
	mu       sync.Mutex
	state    State
	result   *models.ScanResponse
	gen      uint64
	timer    *time.Timer
	delay    time.Duration
	open     Opener
	notifier *notify.Center
	logger   *logger.Logger
}

// NewController creates a Controller. A zero delay means
// DefaultRedirectDelay; a nil opener means the platform browser.
func NewController(notifier *notify.Center, log *logger.Logger, delay time.Duration, open Opener) *Controller {
	if delay <= 0 {
		delay = DefaultRedirectDelay
	}
	if open == nil {
		open = OpenBrowser
	}
	return &Controller{
		delay:    delay,
		open:     open,
		notifier: notifier,
		logger:   log,
	}
}

// BeginScan marks a new scan in flight. Any pending navigation from a
// prior result is cancelled unconditionally. The last result is kept so
// a failed attempt leaves it untouched.
func (c *Controller) BeginScan() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelTimerLocked()
	c.state = Evaluating
}

// HandleResult consumes a scan response, superseding the previous result.
func (c *Controller) HandleResult(resp *models.ScanResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelTimerLocked()
	c.result = resp

	if !resp.MatchFound() {
		c.state = NoMatch
		c.notifier.Show("No matching images found", notify.Info)
		return
	}

	c.state = MatchFound
	c.notifier.Show(
		fmt.Sprintf("Match: %s (%.1f%% similarity) - opening %s",
			resp.Match.Filename, resp.Match.SimilarityPercentage, resp.RedirectURL),
		notify.Success,
	)

	gen := c.gen
	url := resp.RedirectURL
	c.timer = time.AfterFunc(c.delay, func() {
		c.navigate(gen, url)
	})
}

// Abort returns the controller to the state of its last result after a
// failed scan attempt.
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Evaluating {
		return
	}
	switch {
	case c.result == nil:
		c.state = Idle
	case c.result.MatchFound():
		c.state = MatchFound
	default:
		c.state = NoMatch
	}
}

// Reset cancels any pending navigation and clears the result. Called when
// the user leaves the scan panel and on teardown.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelTimerLocked()
	c.state = Idle
	c.result = nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the last scan response, or nil.
func (c *Controller) Result() *models.ScanResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// cancelTimerLocked invalidates any armed navigation. Stop alone is not
// enough: the timer callback may already be running, so the generation
// bump makes it a no-op.
func (c *Controller) cancelTimerLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) navigate(gen uint64, url string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	if err := c.open(url); err != nil {
		c.logger.Error("Failed to open %s: %v", url, err)
		c.notifier.Show(fmt.Sprintf("Could not open %s", url), notify.Error)
		return
	}
	c.logger.Info("Opened matched URL: %s", url)
}
