package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ========================================
// Test Setup Helpers
// ========================================

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload interface{}) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("Failed to encode response: %v", err)
	}
}

// ========================================
// Client Tests
// ========================================

func TestClient_StoredImages(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/stored-images" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"total_images": 1,
			"images": []map[string]interface{}{{
				"id":           "abc-123",
				"filename":     "logo.png",
				"url":          "https://example.com",
				"content_type": "image/png",
				"file_size":    2048,
				"image_size":   "640x480",
				"created_at":   "2025-05-01T12:00:00",
			}},
		})
	})

	links, err := client.StoredImages(context.Background())
	if err != nil {
		t.Fatalf("StoredImages failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(links))
	}
	if links[0].ID != "abc-123" || links[0].URL != "https://example.com" || links[0].FileSize != 2048 {
		t.Errorf("Unexpected record: %+v", links[0])
	}
}

func TestClient_LinkImage_SendsMultipartFields(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/link-image" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Not a multipart request: %v", err)
		}
		if got := r.FormValue("url"); got != "https://example.com" {
			t.Errorf("Expected url field, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("Missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "logo.png" {
			t.Errorf("Expected filename logo.png, got %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("Expected image/png part, got %q", ct)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "png-bytes" {
			t.Errorf("Unexpected file content: %q", data)
		}
		writeJSON(t, w, http.StatusOK, map[string]string{
			"status":  "created",
			"message": "linked",
		})
	})

	resp, err := client.LinkImage(context.Background(), "https://example.com", "logo.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("LinkImage failed: %v", err)
	}
	if resp.Message != "linked" || resp.Status != "created" {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestClient_ScanImage_SendsThreshold(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Not a multipart request: %v", err)
		}
		if got := r.FormValue("threshold"); got != "10" {
			t.Errorf("Expected threshold 10, got %q", got)
		}
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"status":       "match_found",
			"redirect_url": "https://x.com",
			"match": map[string]interface{}{
				"filename":              "logo.png",
				"url":                   "https://x.com",
				"similarity_percentage": 92.3,
				"algorithm_used":        "dhash",
			},
			"total_stored_images": 3,
		})
	})

	resp, err := client.ScanImage(context.Background(), "q.jpg", "image/jpeg", []byte("jpeg"), 10)
	if err != nil {
		t.Fatalf("ScanImage failed: %v", err)
	}
	if !resp.MatchFound() {
		t.Fatalf("Expected a match, got %+v", resp)
	}
	if resp.Match.SimilarityPercentage != 92.3 {
		t.Errorf("Expected 92.3%%, got %v", resp.Match.SimilarityPercentage)
	}
}

func TestClient_DeleteImage(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/stored-images/abc-123" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "Image link deleted successfully"})
	})

	msg, err := client.DeleteImage(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if msg != "Image link deleted successfully" {
		t.Errorf("Unexpected message: %q", msg)
	}
}

func TestClient_ErrorCarriesBackendDetail(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"detail": "Unsupported file type: text/plain"})
	})

	_, err := client.ScanImage(context.Background(), "q.txt", "text/plain", []byte("nope"), 10)
	if err == nil {
		t.Fatal("Expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Unsupported file type: text/plain" {
		t.Errorf("Expected backend detail, got %q", apiErr.Detail)
	}
}

func TestClient_ErrorWithoutDetailIsGeneric(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.StoredImages(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Detail != "" {
		t.Errorf("Expected empty detail, got %q", apiErr.Detail)
	}
	if apiErr.Error() == "" {
		t.Error("Expected a generic error message")
	}
}
