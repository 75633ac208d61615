package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Elyot88/Image-QR-weblink/internal/backend"
	"github.com/Elyot88/Image-QR-weblink/internal/logger"
	"github.com/Elyot88/Image-QR-weblink/internal/notify"
	"github.com/Elyot88/Image-QR-weblink/internal/registry"
	"github.com/Elyot88/Image-QR-weblink/internal/scanresult"
	"github.com/Elyot88/Image-QR-weblink/internal/source"
)

var (
	// ErrValidation means a precondition failed before any network call.
	ErrValidation = errors.New("validation failed")

	// ErrBusy means the same action is already in flight.
	ErrBusy = errors.New("operation already in progress")
)

// Action names, used as in-flight flag keys.
const (
	ActionLink    = "link"
	ActionScan    = "scan"
	ActionRefresh = "refresh"
	ActionDelete  = "delete"
)

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer func(prompt string) bool

// Orchestrator runs the four network actions. Each action holds its own
// in-flight flag for its whole duration, set before anything else and
// released on every exit path, so a validation failure can never leave an
// action stuck "loading". Overlapping invocations of the same action are
// rejected; unrelated actions may interleave.
type Orchestrator struct {
	client    *backend.Client
	resolver  *source.Resolver
	registry  *registry.Registry
	scans     *scanresult.Controller
	notifier  *notify.Center
	logger    *logger.Logger
	confirm   Confirmer
	threshold int

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(
	client *backend.Client,
	resolver *source.Resolver,
	reg *registry.Registry,
	scans *scanresult.Controller,
	notifier *notify.Center,
	log *logger.Logger,
	confirm Confirmer,
	threshold int,
) *Orchestrator {
	return &Orchestrator{
		client:    client,
		resolver:  resolver,
		registry:  reg,
		scans:     scans,
		notifier:  notifier,
		logger:    log,
		confirm:   confirm,
		threshold: threshold,
		inFlight:  make(map[string]bool),
	}
}

// Busy reports whether the named action is in flight.
func (o *Orchestrator) Busy(action string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight[action]
}

// begin sets the action's in-flight flag; false when already set.
func (o *Orchestrator) begin(action string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight[action] {
		return false
	}
	o.inFlight[action] = true
	return true
}

func (o *Orchestrator) end(action string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight[action] = false
}

// LinkImage associates the active image with the target URL. On success
// the image source is cleared and the caller should clear its URL input;
// on any failure both are kept so the user can retry.
func (o *Orchestrator) LinkImage(ctx context.Context, targetURL string) error {
	if !o.begin(ActionLink) {
		o.notifier.Show("A link operation is already in progress", notify.Info)
		return ErrBusy
	}
	defer o.end(ActionLink)

	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		o.notifier.Show("Please enter a URL", notify.Error)
		return fmt.Errorf("%w: missing URL", ErrValidation)
	}

	img := o.resolver.Current()
	if img.Kind == source.None {
		o.notifier.Show("Please capture or choose an image first", notify.Error)
		return fmt.Errorf("%w: missing image", ErrValidation)
	}

	resp, err := o.client.LinkImage(ctx, targetURL, img.Name, img.ContentType, img.Data)
	if err != nil {
		o.notifyFailure(err, "Failed to link image")
		return err
	}

	o.resolver.Clear()
	o.notifier.Show(resp.Message, notify.Success)
	o.logger.Info("Linked %s (%s) to %s", img.Name, resp.Status, targetURL)
	return nil
}

// ScanImage submits the active image for matching. The image source is
// kept so the user can rescan; the previous scan result survives a failed
// attempt.
func (o *Orchestrator) ScanImage(ctx context.Context) error {
	if !o.begin(ActionScan) {
		o.notifier.Show("A scan is already in progress", notify.Info)
		return ErrBusy
	}
	defer o.end(ActionScan)

	img := o.resolver.Current()
	if img.Kind == source.None {
		o.notifier.Show("Please capture or choose an image first", notify.Error)
		return fmt.Errorf("%w: missing image", ErrValidation)
	}

	o.scans.BeginScan()

	resp, err := o.client.ScanImage(ctx, img.Name, img.ContentType, img.Data, o.threshold)
	if err != nil {
		o.scans.Abort()
		o.notifyFailure(err, "Failed to scan image")
		return err
	}

	o.scans.HandleResult(resp)
	return nil
}

// RefreshStoredLinks fetches the full current set and replaces the
// registry wholesale. The prior set stays intact on error.
func (o *Orchestrator) RefreshStoredLinks(ctx context.Context) error {
	if !o.begin(ActionRefresh) {
		return ErrBusy
	}
	defer o.end(ActionRefresh)

	links, err := o.client.StoredImages(ctx)
	if err != nil {
		o.notifyFailure(err, "Failed to load stored links")
		return err
	}

	o.registry.Replace(links)
	o.logger.Info("Refreshed %d stored link(s)", len(links))
	return nil
}

// DeleteLink removes a stored record after user confirmation, then
// re-fetches the whole set so the local view matches backend truth even
// under concurrent modification by other clients.
func (o *Orchestrator) DeleteLink(ctx context.Context, id string) error {
	if !o.begin(ActionDelete) {
		o.notifier.Show("A delete is already in progress", notify.Info)
		return ErrBusy
	}
	defer o.end(ActionDelete)

	if strings.TrimSpace(id) == "" {
		o.notifier.Show("Please select a link to delete", notify.Error)
		return fmt.Errorf("%w: missing id", ErrValidation)
	}

	if o.confirm != nil && !o.confirm("Delete this image link?") {
		return nil
	}

	msg, err := o.client.DeleteImage(ctx, id)
	if err != nil {
		o.notifyFailure(err, "Failed to delete link")
		return err
	}

	if msg == "" {
		msg = "Image link deleted"
	}
	o.notifier.Show(msg, notify.Success)
	o.logger.Info("Deleted link %s", id)

	return o.RefreshStoredLinks(ctx)
}

// notifyFailure surfaces the backend's detail message when present,
// otherwise the generic fallback.
func (o *Orchestrator) notifyFailure(err error, fallback string) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		o.notifier.Show(apiErr.Detail, notify.Error)
	} else {
		o.notifier.Show(fallback, notify.Error)
	}
	o.logger.Error("%s: %v", fallback, err)
}
