package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional CONFIG_FILE layout. Values act as defaults; env wins.
type fileConfig struct {
	Server struct {
		Port            string   `yaml:"port"`
		Env             string   `yaml:"env"`
		CORSAllowOrigin []string `yaml:"corsAllowOrigins"`
		MaxUploadBytes  int64    `yaml:"maxUploadBytes"`
		LogLevel        string   `yaml:"logLevel"`
	} `yaml:"server"`

	Storage struct {
		Type     string `yaml:"type"`
		LocalDir string `yaml:"localDir"`
		S3       struct {
			Region   string `yaml:"region"`
			Bucket   string `yaml:"bucket"`
			Prefix   string `yaml:"prefix"`
			KMSKeyID string `yaml:"kmsKeyId"`
		} `yaml:"s3"`
		Minio struct {
			Endpoint  string `yaml:"endpoint"`
			AccessKey string `yaml:"accessKey"`
			SecretKey string `yaml:"secretKey"`
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			UseSSL    bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"storage"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Model struct {
		Provider       string `yaml:"provider"`
		Name           string `yaml:"name"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
		BreakerEnabled bool   `yaml:"breakerEnabled"`
	} `yaml:"model"`

	ImageGen struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
	} `yaml:"imageGen"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rateLimit"`
}

func loadYAMLFile(path string) (fileConfig, error) {
	var fc fileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

// loadEnvFiles sets KEY=VALUE pairs from the given files when the key is not already set.
// Missing or unreadable files are skipped.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			key, val, ok := parseEnvLine(scanner.Text())
			if !ok {
				continue
			}
			if _, exists := os.LookupEnv(key); exists {
				continue
			}
			_ = os.Setenv(key, val)
		}
		_ = f.Close()
	}
}

func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")
	key, val, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	val = strings.Trim(strings.TrimSpace(val), `"'`)
	if key == "" {
		return "", "", false
	}
	return key, val, true
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
