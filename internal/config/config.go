package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	APIBaseURL    string
	CameraDevice  int // OpenCV capture device index
	FrameWidth    int
	FrameHeight   int
	JPEGQuality   int // 0-100, passed to the JPEG encoder
	ScanThreshold int // Hamming distance the backend matches against
	PreviewPort   int
	PreviewFPS    int
	CachePath     string
	LogDirectory  string
}

func Load() *Config {
	return &Config{
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8000"),
		CameraDevice:  getEnvAsInt("CAMERA_DEVICE", 0),
		FrameWidth:    getEnvAsInt("FRAME_WIDTH", 1280),
		FrameHeight:   getEnvAsInt("FRAME_HEIGHT", 720),
		JPEGQuality:   getEnvAsInt("JPEG_QUALITY", 80),
		ScanThreshold: getEnvAsInt("SCAN_THRESHOLD", 10),
		PreviewPort:   getEnvAsInt("PREVIEW_PORT", 8089),
		PreviewFPS:    getEnvAsInt("PREVIEW_FPS", 10),
		CachePath:     getEnv("CACHE_PATH", filepath.Join(".", "data", "links.db")),
		LogDirectory:  getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
