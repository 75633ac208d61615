package camera

import (
	"errors"
	"testing"

	"github.com/Elyot88/Image-QR-weblink/internal/config"
	"github.com/Elyot88/Image-QR-weblink/internal/logger"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	log := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	t.Cleanup(log.Close)

	return NewSession(&config.Config{
		CameraDevice: 0,
		FrameWidth:   1280,
		FrameHeight:  720,
		JPEGQuality:  80,
	}, log)
}

func TestSession_InactiveByDefault(t *testing.T) {
	s := newTestSession(t)

	if s.Active() {
		t.Error("New session must be inactive")
	}
}

func TestSession_CaptureWhileInactive(t *testing.T) {
	s := newTestSession(t)

	data, err := s.Capture()
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("Expected ErrNotReady, got %v", err)
	}
	if data != nil {
		t.Errorf("Inactive capture must produce no data, got %d bytes", len(data))
	}
}

func TestSession_StopWhileInactiveIsNoOp(t *testing.T) {
	s := newTestSession(t)

	// Must not panic or change anything, however often it is called.
	s.Stop()
	s.Stop()

	if s.Active() {
		t.Error("Session became active after Stop")
	}
}
