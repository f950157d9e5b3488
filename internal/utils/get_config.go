package utils

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server configuration
	AppPort           string `yaml:"APP_PORT"`
	TrustedProxies    string `yaml:"TRUSTED_PROXIES"`
	HTTPClientTimeout string `yaml:"HTTP_CLIENT_TIMEOUT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Basic auth for every route
	BasicAuthUsername string `yaml:"BASIC_AUTH_USERNAME"`
	BasicAuthPassword string `yaml:"BASIC_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket    string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region    string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint  string `yaml:"AWS_S3_ENDPOINT"`
	AWSS3URLExpiry string `yaml:"AWS_S3_URL_EXPIRY"`
	AWSAccessKey   string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey   string `yaml:"AWS_SECRET_KEY"`

	// Gemini API configuration
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`
}

var config Config

// LoadConfig reads config.yaml, then lets the environment (and an optional .env
// file) override any key.
func LoadConfig() {
	LoadConfigFrom("config.yaml")
}

func LoadConfigFrom(path string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Error reading .env file: %s", err)
	}

	config = Config{}
	file, err := os.ReadFile(path)
	if err != nil {
		log.Infof("No YAML config read (%s), using environment only", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Errorf("Error parsing YAML file: %s", err)
	}

	for key, field := range config.fields() {
		if value, ok := os.LookupEnv(key); ok {
			*field = value
		}
	}
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":            &c.AppPort,
		"TRUSTED_PROXIES":     &c.TrustedProxies,
		"HTTP_CLIENT_TIMEOUT": &c.HTTPClientTimeout,
		"DB_USER":             &c.DBUser,
		"DB_NAME":             &c.DBName,
		"DB_PASSWORD":         &c.DBPassword,
		"DB_PORT":             &c.DBPort,
		"DB_HOST":             &c.DBHost,
		"BASIC_AUTH_USERNAME": &c.BasicAuthUsername,
		"BASIC_AUTH_PASSWORD": &c.BasicAuthPassword,
		"AWS_S3_BUCKET":       &c.AWSS3Bucket,
		"AWS_S3_REGION":       &c.AWSS3Region,
		"AWS_S3_ENDPOINT":     &c.AWSS3Endpoint,
		"AWS_S3_URL_EXPIRY":   &c.AWSS3URLExpiry,
		"AWS_ACCESS_KEY":      &c.AWSAccessKey,
		"AWS_SECRET_KEY":      &c.AWSSecretKey,
		"GEMINI_API_KEY":      &c.GeminiAPIKey,
		"GEMINI_MODEL":        &c.GeminiModel,
	}
}

func GetConfig(key string) string {
	if field, ok := config.fields()[key]; ok {
		return *field
	}
	return ""
}

// GetDuration parses a duration key, falling back to def when unset or invalid.
func GetDuration(key string, def time.Duration) time.Duration {
	raw := GetConfig(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warnf("invalid duration for %s: %q, using %s", key, raw, def)
		return def
	}
	return d
}

// GetList splits a comma separated key into trimmed, non-empty items.
func GetList(key string) []string {
	var out []string
	for _, item := range strings.Split(GetConfig(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
