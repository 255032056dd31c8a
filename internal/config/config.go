package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseAPIURL string
	TokenPath  string

	PhotoBackend   string
	FirebaseBucket string
	PhotoFolder    string
	PhotoLocalPath string
	JPEGQuality    int

	CameraSnapshotURL string

	LocationBackend string
	GpsdAddr        string
	StaticLatitude  string
	StaticLongitude string

	MaxDistanceM float64
	PollInterval time.Duration

	LogLevel string
	LogFile  string
}

// Load reads configuration from the environment, after loading an
// optional .env file in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseAPIURL: getEnv("BASE_API_URL", "http://localhost:5001/api"),
		TokenPath:  getEnv("TOKEN_PATH", "/data/absensi/token"),

		PhotoBackend:   getEnv("PHOTO_BACKEND", "firebase"),
		FirebaseBucket: getEnv("FIREBASE_BUCKET", ""),
		PhotoFolder:    getEnv("PHOTO_FOLDER", "sistem-absensi"),
		PhotoLocalPath: getEnv("PHOTO_LOCAL_PATH", "/data/absensi/photos"),
		JPEGQuality:    getEnvInt("JPEG_QUALITY", 85),

		CameraSnapshotURL: getEnv("CAMERA_SNAPSHOT_URL", "http://localhost:8080/shot.jpg"),

		LocationBackend: getEnv("LOCATION_BACKEND", "gpsd"),
		GpsdAddr:        getEnv("GPSD_ADDR", "localhost:2947"),
		StaticLatitude:  getEnv("STATIC_LATITUDE", ""),
		StaticLongitude: getEnv("STATIC_LONGITUDE", ""),

		MaxDistanceM: getEnvFloat("MAX_DISTANCE_M", 100),
		PollInterval: getEnvDuration("POLL_INTERVAL", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
