package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/Elyot88/Image-QR-weblink/internal/models"
)

// APIError carries the backend's error detail for a non-2xx response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Client talks to the image recognition backend under /api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StoredImages fetches the full set of link records.
func (c *Client) StoredImages(ctx context.Context) ([]models.StoredLink, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stored-images", nil)
	if err != nil {
		return nil, err
	}

	var payload models.StoredImagesResponse
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return payload.Images, nil
}

// LinkImage uploads an image together with the URL it should resolve to.
func (c *Client) LinkImage(ctx context.Context, targetURL, filename, contentType string, data []byte) (*models.LinkResponse, error) {
	body, formType, err := buildMultipart(filename, contentType, data, map[string]string{"url": targetURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/link-image", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", formType)

	var payload models.LinkResponse
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ScanImage submits an image for similarity matching at the given threshold.
func (c *Client) ScanImage(ctx context.Context, filename, contentType string, data []byte, threshold int) (*models.ScanResponse, error) {
	body, formType, err := buildMultipart(filename, contentType, data, map[string]string{"threshold": strconv.Itoa(threshold)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scan-image", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", formType)

	var payload models.ScanResponse
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteImage removes one stored link record by id.
func (c *Client) DeleteImage(ctx context.Context, id string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/stored-images/"+id, nil)
	if err != nil {
		return "", err
	}

	var payload models.DeleteResponse
	if err := c.do(req, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// do executes the request and decodes the JSON response into out.
// Non-2xx responses are converted into *APIError with the backend's
// detail message when one is present.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(raw, &detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// buildMultipart assembles a multipart body with a "file" part plus the
// given form fields, preserving the image's own content type.
func buildMultipart(filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
