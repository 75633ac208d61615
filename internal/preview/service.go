package preview

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Elyot88/Image-QR-weblink/internal/camera"
	"github.com/Elyot88/Image-QR-weblink/internal/config"
	"github.com/Elyot88/Image-QR-weblink/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const previewPage = `<!DOCTYPE html>
<html>
<head>
<title>weblink camera preview</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>body{margin:0;background:#111;display:flex;justify-content:center;align-items:center;height:100vh}img{max-width:100%;max-height:100%}</style>
</head>
<body>
<img id="frame" alt="waiting for camera...">
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  document.getElementById("frame").src = "data:image/jpeg;base64," + msg.image;
};
</script>
</body>
</html>`

// Service serves a local browser page showing the live camera feed while
// the session is active. Frames are pulled from the session at a fixed
// rate and broadcast as base64 JPEG over a websocket.
type Service struct {
	hub     *Hub
	session *camera.Session
	port    int
	fps     int
	logger  *logger.Logger
}

func NewService(cfg *config.Config, session *camera.Session, log *logger.Logger) *Service {
	fps := cfg.PreviewFPS
	if fps <= 0 {
		fps = 10
	}
	return &Service{
		hub:     NewHub(log),
		session: session,
		port:    cfg.PreviewPort,
		fps:     fps,
		logger:  log,
	}
}

// URL returns the address of the preview page.
func (s *Service) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Run serves the preview until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.hub.Run()
	go s.frameLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.websocketHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, previewPage)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Camera preview available at %s", s.URL())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.hub.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		s.hub.Stop()
		return err
	}
}

// frameLoop feeds the hub while someone is watching and the camera is on.
func (s *Service) frameLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.hub.ClientCount() == 0 || !s.session.Active() {
				continue
			}
			frame, err := s.session.Capture()
			if err != nil {
				continue
			}
			encoded := base64.StdEncoding.EncodeToString(frame)
			s.hub.Broadcast([]byte(fmt.Sprintf(`{"image":"%s"}`, encoded)))
		}
	}
}

func (s *Service) websocketHandler(w http.ResponseWriter, r *http.Request) {
	connection, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade error: %v", err)
		return
	}
	connection.SetReadLimit(512)
	defer connection.Close()

	s.hub.Register(connection)
	defer s.hub.Unregister(connection)

	for {
		if _, _, err := connection.ReadMessage(); err != nil {
			break
		}
	}
}
