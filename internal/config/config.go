// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment.
// Values come from the process environment (a .env file is loaded in main).
type Config struct {
	Port string

	// UploadDir is the root under which per-task workspaces and registered
	// model assets live. It is served statically at FilesPrefix.
	UploadDir string

	// BlenderBin and BlenderScript define the external converter invocation:
	// <BlenderBin> -b -P <BlenderScript> -- <input> <output>
	BlenderBin     string
	BlenderScript  string
	ConvertTimeout time.Duration

	// PublicHost is the scheme+host clients reach assets on, without a
	// trailing slash, e.g. "http://localhost".
	PublicHost string

	// FilesPrefix is the asset-serving path prefix, e.g. "/files".
	FilesPrefix string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		UploadDir:      getEnv("UPLOAD_DIR", "files"),
		BlenderBin:     getEnv("BLENDER_BIN", "blender"),
		BlenderScript:  getEnv("BLENDER_SCRIPT", "scripts/blender_convert.py"),
		ConvertTimeout: time.Duration(getEnvInt("CONVERT_TIMEOUT_SEC", 300)) * time.Second,
		PublicHost:     getEnv("PUBLIC_HOST", "http://localhost"),
		FilesPrefix:    getEnv("FILES_PREFIX", "/files"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
