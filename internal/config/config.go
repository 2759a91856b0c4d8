// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the Natya server and pipeline.
type Config struct {
	// HTTP server
	Addr string

	// Storage
	DBPath  string
	DataDir string

	// Extraction pipeline
	SampleHz float64
	Alpha    float64

	// Live scoring
	ScoreIntervalMs int
	CameraID        int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:            getEnv("NATYA_ADDR", ":8080"),
		DBPath:          getEnv("NATYA_DB", "natya.db"),
		DataDir:         getEnv("NATYA_DATA_DIR", "out"),
		SampleHz:        getEnvFloat("NATYA_SAMPLE_HZ", 15),
		Alpha:           getEnvFloat("NATYA_ALPHA", 0.7),
		ScoreIntervalMs: getEnvInt("NATYA_SCORE_INTERVAL_MS", 500),
		CameraID:        getEnvInt("NATYA_CAMERA_ID", 0),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: failed to parse %s as float, using default: %v", key, err)
		return defaultValue
	}
	return floatValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}
