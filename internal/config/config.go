package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Runtime
	Env      string
	LogLevel string
	LogFile  string

	// Print product
	PrintAspectRatio   float64
	PrintStyle         string
	PrintMarginPercent float64

	// Date stamp
	StampEnabled        bool
	StampPosition       string
	StampSizeTier       string
	StampColor          string
	StampDateFormat     string
	StampOpacityPercent int

	// Thumbnails
	ThumbnailMaxSide int
	ThumbnailQuality int

	// Editor viewport. Height zero means derived from the print aspect.
	ViewportWidth  float64
	ViewportHeight float64

	// Uploads
	UploadConcurrency int
	UploadMaxBytes    int
	StorageKind       string
	UploadAuthURL     string
	UploadAuthTTL     time.Duration
	PublicBaseURL     string

	// S3-compatible storage
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// Local storage
	StorageDir string

	// Order backend
	OrderBaseURL string
	OrderTimeout time.Duration
	OrderRef     string
	SubmitOrder  bool

	// Batch input and output
	ManifestPath string
	OutputDir    string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Runtime
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Print product
		PrintAspectRatio:   parseFloat(getEnv("PRINT_ASPECT_RATIO", "0.7"), 0.7),
		PrintStyle:         getEnv("PRINT_STYLE", "cover"),
		PrintMarginPercent: parseFloat(getEnv("PRINT_MARGIN_PERCENT", "5"), 5),

		// Date stamp
		StampEnabled:        parseBool(getEnv("STAMP_ENABLED", "false"), false),
		StampPosition:       getEnv("STAMP_POSITION", "bottom_right"),
		StampSizeTier:       getEnv("STAMP_SIZE_TIER", "medium"),
		StampColor:          getEnv("STAMP_COLOR", "#FFFFFF"),
		StampDateFormat:     getEnv("STAMP_DATE_FORMAT", ""),
		StampOpacityPercent: parseInt(getEnv("STAMP_OPACITY_PERCENT", "80"), 80),

		// Thumbnails
		ThumbnailMaxSide: parseInt(getEnv("THUMBNAIL_MAX_SIDE", "1080"), 1080),
		ThumbnailQuality: parseInt(getEnv("THUMBNAIL_QUALITY", "90"), 90),

		// Editor viewport
		ViewportWidth:  parseFloat(getEnv("VIEWPORT_WIDTH", "390"), 390),
		ViewportHeight: parseFloat(getEnv("VIEWPORT_HEIGHT", "0"), 0),

		// Uploads
		UploadConcurrency: parseInt(getEnv("UPLOAD_CONCURRENCY", "3"), 3),
		UploadMaxBytes:    parseInt(getEnv("UPLOAD_MAX_BYTES", "0"), 0),
		StorageKind:       getEnv("STORAGE_KIND", "local"),
		UploadAuthURL:     getEnv("UPLOAD_AUTH_URL", ""),
		UploadAuthTTL:     parseDuration(getEnv("UPLOAD_AUTH_TTL", "25m"), 25*time.Minute),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", ""),

		// S3-compatible storage
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "auto"),
		S3Bucket:    getEnv("S3_BUCKET", "printlab-originals"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		// Local storage
		StorageDir: getEnv("STORAGE_DIR", "./uploads"),

		// Order backend
		OrderBaseURL: getEnv("ORDER_BASE_URL", "http://localhost:8080"),
		OrderTimeout: parseDuration(getEnv("ORDER_TIMEOUT", "30s"), 30*time.Second),
		OrderRef:     getEnv("ORDER_REF", ""),
		SubmitOrder:  parseBool(getEnv("SUBMIT_ORDER", "false"), false),

		// Batch input and output
		ManifestPath: getEnv("MANIFEST_PATH", "./photos.json"),
		OutputDir:    getEnv("OUTPUT_DIR", "./prints"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseBool(s string, defaultValue bool) bool {
	value, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseFloat(s string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
