package source

import (
	"strings"
	"testing"
)

func TestResolver_StartsEmpty(t *testing.T) {
	r := NewResolver()

	if got := r.Current(); got.Kind != None {
		t.Errorf("Expected None, got %v", got.Kind)
	}
}

func TestResolver_SelectUpload(t *testing.T) {
	r := NewResolver()

	r.SelectUpload("/tmp/photos/logo.png", []byte("png-data"))

	img := r.Current()
	if img.Kind != Uploaded {
		t.Fatalf("Expected Uploaded, got %v", img.Kind)
	}
	if img.Name != "logo.png" {
		t.Errorf("Expected base filename logo.png, got %q", img.Name)
	}
	if img.ContentType != "image/png" {
		t.Errorf("Expected image/png, got %q", img.ContentType)
	}
	if string(img.Data) != "png-data" {
		t.Errorf("Unexpected data: %q", img.Data)
	}
}

func TestResolver_SelectUpload_UnknownExtension(t *testing.T) {
	r := NewResolver()

	r.SelectUpload("mystery.xyz123", []byte("data"))

	if got := r.Current().ContentType; got != "application/octet-stream" {
		t.Errorf("Expected octet-stream fallback, got %q", got)
	}
}

func TestResolver_SelectCaptured(t *testing.T) {
	r := NewResolver()

	r.SelectCaptured([]byte("jpeg-data"))

	img := r.Current()
	if img.Kind != Captured {
		t.Fatalf("Expected Captured, got %v", img.Kind)
	}
	if img.ContentType != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %q", img.ContentType)
	}
	if !strings.HasPrefix(img.Name, "capture_") || !strings.HasSuffix(img.Name, ".jpg") {
		t.Errorf("Unexpected capture filename: %q", img.Name)
	}
}

func TestResolver_CapturedFilenamesAreUnique(t *testing.T) {
	r := NewResolver()

	r.SelectCaptured([]byte("a"))
	first := r.Current().Name
	r.SelectCaptured([]byte("b"))
	second := r.Current().Name

	if first == second {
		t.Errorf("Expected unique capture filenames, both were %q", first)
	}
}

func TestResolver_SourcesAreMutuallyExclusive(t *testing.T) {
	r := NewResolver()

	// Whatever the interleaving, Current reflects only the latest call.
	r.SelectUpload("a.png", []byte("a"))
	r.SelectCaptured([]byte("b"))

	img := r.Current()
	if img.Kind != Captured {
		t.Fatalf("Expected Captured after SelectCaptured, got %v", img.Kind)
	}
	if string(img.Data) != "b" {
		t.Errorf("Uploaded data leaked through: %q", img.Data)
	}

	r.SelectUpload("c.gif", []byte("c"))
	img = r.Current()
	if img.Kind != Uploaded {
		t.Fatalf("Expected Uploaded after SelectUpload, got %v", img.Kind)
	}
	if string(img.Data) != "c" {
		t.Errorf("Captured data leaked through: %q", img.Data)
	}
}

func TestResolver_Clear(t *testing.T) {
	r := NewResolver()

	r.SelectUpload("a.png", []byte("a"))
	r.Clear()

	img := r.Current()
	if img.Kind != None {
		t.Errorf("Expected None after Clear, got %v", img.Kind)
	}
	if img.Data != nil {
		t.Errorf("Expected no data after Clear, got %d bytes", len(img.Data))
	}
}
