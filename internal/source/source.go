package source

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Kind tells where the active image came from.
type Kind int

const (
	None Kind = iota
	Captured
	Uploaded
)

func (k Kind) String() string {
	switch k {
	case Captured:
		return "captured"
	case Uploaded:
		return "uploaded"
	default:
		return "none"
	}
}

// Image is the payload handed to the backend: raw bytes plus the
// filename and content type the multipart part is built from.
type Image struct {
	Kind        Kind
	Name        string
	ContentType string
	Data        []byte
}

// Resolver tracks which image is active. Selecting a captured frame
// drops any picked file and vice versa, so the two sources can never
// both be set, regardless of how callers interleave.
type Resolver struct {
	mu      sync.Mutex
	current Image
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// SelectUpload makes a file picked from disk the active image.
func (r *Resolver) SelectUpload(name string, data []byte) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Image{
		Kind:        Uploaded,
		Name:        filepath.Base(name),
		ContentType: contentType,
		Data:        data,
	}
}

// SelectCaptured makes a camera frame the active image. Frames are
// always JPEG and get a unique synthetic filename.
func (r *Resolver) SelectCaptured(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Image{
		Kind:        Captured,
		Name:        fmt.Sprintf("capture_%s.jpg", uuid.New().String()[:8]),
		ContentType: "image/jpeg",
		Data:        data,
	}
}

// Current returns the active image; Kind is None when nothing is selected.
func (r *Resolver) Current() Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Clear resets the resolver. Called after a successful link submission
// and when the user switches panels.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = Image{}
}
