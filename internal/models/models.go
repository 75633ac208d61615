package models

// StoredLink is one record from GET /api/stored-images.
type StoredLink struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
	ImageSize   string `json:"image_size"` // "WIDTHxHEIGHT"
	CreatedAt   string `json:"created_at"`
}

// StoredImagesResponse is the full listing payload.
type StoredImagesResponse struct {
	TotalImages int          `json:"total_images"`
	Images      []StoredLink `json:"images"`
}

// LinkResponse is the success payload of POST /api/link-image.
// Status is "created" for a new record or "updated" when the backend
// already held the exact same image and only swapped the URL.
type LinkResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ImageID string `json:"image_id"`
	URL     string `json:"url"`
}

// ScanMatch describes the best match the backend found for a scanned image.
type ScanMatch struct {
	ID                   string  `json:"id"`
	Filename             string  `json:"filename"`
	URL                  string  `json:"url"`
	Distance             int     `json:"distance"`
	SimilarityPercentage float64 `json:"similarity_percentage"`
	AlgorithmUsed        string  `json:"algorithm_used"`
}

// ScanResponse is the payload of POST /api/scan-image. Match and
// RedirectURL are only set when Status is StatusMatchFound.
type ScanResponse struct {
	Status            string     `json:"status"`
	Message           string     `json:"message"`
	Match             *ScanMatch `json:"match"`
	RedirectURL       string     `json:"redirect_url"`
	TotalStoredImages int        `json:"total_stored_images"`
	ThresholdUsed     int        `json:"threshold_used"`
}

const (
	StatusMatchFound = "match_found"
	StatusNoMatch    = "no_match"
)

// MatchFound reports whether the scan produced a usable match.
func (r *ScanResponse) MatchFound() bool {
	return r.Status == StatusMatchFound && r.Match != nil && r.RedirectURL != ""
}

// DeleteResponse is the success payload of DELETE /api/stored-images/{id}.
type DeleteResponse struct {
	Message string `json:"message"`
}
