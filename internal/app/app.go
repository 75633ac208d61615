package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Elyot88/Image-QR-weblink/internal/backend"
	"github.com/Elyot88/Image-QR-weblink/internal/camera"
	"github.com/Elyot88/Image-QR-weblink/internal/config"
	"github.com/Elyot88/Image-QR-weblink/internal/logger"
	"github.com/Elyot88/Image-QR-weblink/internal/notify"
	"github.com/Elyot88/Image-QR-weblink/internal/orchestrator"
	"github.com/Elyot88/Image-QR-weblink/internal/preview"
	"github.com/Elyot88/Image-QR-weblink/internal/registry"
	"github.com/Elyot88/Image-QR-weblink/internal/scanresult"
	"github.com/Elyot88/Image-QR-weblink/internal/source"
)

// App wires the client together: camera session, image source resolver,
// notification center, link registry, scan-result controller, the
// network orchestrator and the browser preview.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Session  *camera.Session
	Resolver *source.Resolver
	Notifier *notify.Center
	Registry *registry.Registry
	Scans    *scanresult.Controller
	Orch     *orchestrator.Orchestrator
	Preview  *preview.Service

	store     *registry.Store
	reader    *bufio.Reader
	assumeYes bool
}

func New() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	store, err := registry.OpenStore(cfg.CachePath)
	if err != nil {
		// The cache is a convenience; the client works without it.
		log.Warning("Link cache disabled: %v", err)
		store = nil
	}

	a := &App{
		Config: cfg,
		Logger: log,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
	}

	a.Notifier = notify.NewCenter(notify.DefaultTTL, log, func(n *notify.Notification) {
		if n != nil {
			fmt.Printf("\n[%s] %s\n", n.Kind, n.Text)
		}
	})

	a.Session = camera.NewSession(cfg, log)
	a.Resolver = source.NewResolver()
	a.Registry = registry.New(store, log)
	a.Scans = scanresult.NewController(a.Notifier, log, scanresult.DefaultRedirectDelay, nil)
	a.Preview = preview.NewService(cfg, a.Session, log)

	client := backend.NewClient(cfg.APIBaseURL)
	a.Orch = orchestrator.New(client, a.Resolver, a.Registry, a.Scans, a.Notifier, log, a.confirm, cfg.ScanThreshold)

	return a, nil
}

// Close releases everything the App owns. The camera stop must run on
// every exit path: an unreleased device keeps the indicator light on and
// can block the next start on some platforms.
func (a *App) Close() {
	a.Session.Stop()
	a.Scans.Reset()
	a.Notifier.Clear()
	if a.store != nil {
		a.store.Close()
	}
	a.Logger.Close()
}

// SetAssumeYes makes delete confirmations auto-accept (--yes flag).
func (a *App) SetAssumeYes(yes bool) {
	a.assumeYes = yes
}

// confirm asks a yes/no question on stdin. Runs inside the command
// handler, so it reads the next input line without racing the panel loop.
func (a *App) confirm(prompt string) bool {
	if a.assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// selectFile loads a file from disk and makes it the active image.
func (a *App) selectFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		a.Notifier.Show(fmt.Sprintf("Could not read %s", path), notify.Error)
		return err
	}
	a.Resolver.SelectUpload(path, data)
	a.Notifier.Show(fmt.Sprintf("Selected %s (%d bytes)", path, len(data)), notify.Info)
	return nil
}

// captureFrame grabs a frame from the live session and makes it the
// active image.
func (a *App) captureFrame() error {
	data, err := a.Session.Capture()
	if err != nil {
		if errors.Is(err, camera.ErrNotReady) {
			a.Notifier.Show("Camera is not ready - start it first", notify.Error)
		} else {
			a.Notifier.Show("Failed to capture frame", notify.Error)
		}
		return err
	}
	a.Resolver.SelectCaptured(data)
	a.Notifier.Show(fmt.Sprintf("Frame captured (%d bytes)", len(data)), notify.Info)
	return nil
}

// startCamera starts the session and points the user at the preview page.
func (a *App) startCamera() error {
	if err := a.Session.Start(); err != nil {
		a.Notifier.Show("Camera unavailable - check that a device is connected", notify.Error)
		return err
	}
	a.Notifier.Show(fmt.Sprintf("Camera on - live preview at %s", a.Preview.URL()), notify.Info)
	return nil
}

// LinkOnce is the non-interactive `weblink link` path.
func (a *App) LinkOnce(ctx context.Context, targetURL, filePath string, capture bool) error {
	if err := a.prepareSource(filePath, capture); err != nil {
		return err
	}
	return a.Orch.LinkImage(ctx, targetURL)
}

// ScanOnce is the non-interactive `weblink scan` path. It waits out the
// redirect delay so a found match actually opens before the process exits.
func (a *App) ScanOnce(ctx context.Context, filePath string, capture bool) error {
	if err := a.prepareSource(filePath, capture); err != nil {
		return err
	}
	if err := a.Orch.ScanImage(ctx); err != nil {
		return err
	}
	if a.Scans.State() == scanresult.MatchFound {
		time.Sleep(scanresult.DefaultRedirectDelay + 250*time.Millisecond)
	}
	return nil
}

// ViewOnce is the non-interactive `weblink view` path.
func (a *App) ViewOnce(ctx context.Context, refresh bool) error {
	if refresh || a.Registry.Len() == 0 {
		if err := a.Orch.RefreshStoredLinks(ctx); err != nil {
			return err
		}
	}
	a.printLinks()
	return nil
}

// DeleteOnce is the non-interactive `weblink delete` path.
func (a *App) DeleteOnce(ctx context.Context, id string) error {
	return a.Orch.DeleteLink(ctx, id)
}

// prepareSource resolves the one-shot image source: a file path, or a
// single frame from a camera session started just for this call.
func (a *App) prepareSource(filePath string, capture bool) error {
	switch {
	case filePath != "":
		return a.selectFile(filePath)
	case capture:
		if err := a.Session.Start(); err != nil {
			a.Notifier.Show("Camera unavailable - check that a device is connected", notify.Error)
			return err
		}
		defer a.Session.Stop()
		// Let the sensor settle before grabbing the frame.
		time.Sleep(300 * time.Millisecond)
		return a.captureFrame()
	default:
		a.Notifier.Show("Please pass --file or --capture", notify.Error)
		return fmt.Errorf("%w: missing image", orchestrator.ErrValidation)
	}
}

func (a *App) printLinks() {
	links := a.Registry.All()
	if len(links) == 0 {
		fmt.Println("No stored links.")
		return
	}
	fmt.Printf("%d stored link(s):\n", len(links))
	for _, link := range links {
		fmt.Printf("  %s  %-24s -> %s  (%s, %d bytes, %s)\n",
			link.ID, link.Filename, link.URL, link.ImageSize, link.FileSize, link.CreatedAt)
	}
}
