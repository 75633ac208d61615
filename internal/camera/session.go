package camera

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/Elyot88/Image-QR-weblink/internal/config"
	"github.com/Elyot88/Image-QR-weblink/internal/logger"
)

var (
	// ErrMediaAccess means the capture device could not be opened
	// (missing, busy, or access denied).
	ErrMediaAccess = errors.New("camera unavailable")

	// ErrNotReady means a capture was attempted while the session is
	// inactive or before the device delivered a decodable frame.
	ErrNotReady = errors.New("camera not ready")
)

// Session owns the live capture device. The handle exists iff the session
// is active; Capture does not end the session, only Stop releases the
// device. Stop is idempotent so teardown paths can call it blindly.
type Session struct {
	mu      sync.Mutex
	device  int
	width   int
	height  int
	quality int
	capture *gocv.VideoCapture
	logger  *logger.Logger
}

func NewSession(cfg *config.Config, log *logger.Logger) *Session {
	return &Session{
		device:  cfg.CameraDevice,
		width:   cfg.FrameWidth,
		height:  cfg.FrameHeight,
		quality: cfg.JPEGQuality,
		logger:  log,
	}
}

// Start opens the capture device and requests the configured frame size.
// The size is a hint; drivers may deliver the nearest supported mode.
// Calling Start on an active session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture != nil {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(s.device)
	if err != nil {
		s.logger.Error("Failed to open camera device %d: %v", s.device, err)
		return fmt.Errorf("%w: device %d: %v", ErrMediaAccess, s.device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		s.logger.Error("Camera device %d did not open", s.device)
		return fmt.Errorf("%w: device %d", ErrMediaAccess, s.device)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(s.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(s.height))

	s.capture = capture
	s.logger.Info("Camera session started on device %d (%dx%d requested)", s.device, s.width, s.height)
	return nil
}

// Active reports whether a device handle is held.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture != nil
}

// Capture grabs the current frame and encodes it as JPEG at the configured
// quality. The session state is unchanged. Returns ErrNotReady when the
// session is inactive or the device has not produced a frame yet.
func (s *Session) Capture() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil, ErrNotReady
	}

	frame := gocv.NewMat()
	defer frame.Close()

	if ok := s.capture.Read(&frame); !ok || frame.Empty() {
		return nil, fmt.Errorf("%w: no frame available", ErrNotReady)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame, []int{gocv.IMWriteJpegQuality, s.quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

// Stop releases the device. No-op when already inactive.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return
	}
	if err := s.capture.Close(); err != nil {
		s.logger.Warning("Error closing camera device: %v", err)
	}
	s.capture = nil
	s.logger.Info("Camera session stopped")
}
