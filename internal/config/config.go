package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	LLM      LLMConfig
	Geocoder GeocoderConfig
	Upload   UploadConfig
	Session  SessionConfig
	CORS     CORSConfig
	Export   ExportConfig
	S3       S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig holds settings for the OpenAI-compatible chat-completion API
// used for OCR extraction and text structuring.
type LLMConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	OCRModel    string `mapstructure:"ocr_model"`
	TextModel   string `mapstructure:"text_model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// GeocoderConfig holds geocoding provider settings.
type GeocoderConfig struct {
	Provider        string        `mapstructure:"provider"`
	APIKey          string        `mapstructure:"api_key"`
	RequestInterval time.Duration `mapstructure:"request_interval"`
	AddressPrefix   string        `mapstructure:"address_prefix"`
	CleanAddress    bool          `mapstructure:"clean_address"`
}

// UploadConfig holds image upload limits.
type UploadConfig struct {
	MaxFileSizeMB  int64    `mapstructure:"max_file_size_mb"`
	AllowedFormats []string `mapstructure:"allowed_formats"`
}

// SessionConfig holds in-memory session store settings.
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	DefaultFilename string `mapstructure:"default_filename"`
}

// S3Config holds optional S3-compatible storage settings for archiving
// export artifacts. Archiving is disabled when Bucket is empty.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether export archiving is configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from environment variables with the MAPSMITH_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MAPSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// LLM defaults (OpenAI-compatible endpoint)
	v.SetDefault("llm.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.ocr_model", "qwen-vl-max-latest")
	v.SetDefault("llm.text_model", "qwen-max-latest")
	v.SetDefault("llm.timeout_secs", 120)

	// Geocoder defaults
	v.SetDefault("geocoder.provider", "amap")
	v.SetDefault("geocoder.api_key", "")
	v.SetDefault("geocoder.request_interval", "1s")
	v.SetDefault("geocoder.address_prefix", "")
	v.SetDefault("geocoder.clean_address", true)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)
	v.SetDefault("upload.allowed_formats", "png,jpg,jpeg,webp")

	// Session defaults
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.cleanup_interval", "10m")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Export defaults
	v.SetDefault("export.default_filename", "map_data")

	// S3 defaults (archiving disabled unless a bucket is set)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "MAPSMITH_SERVER_PORT",
		"server.read_timeout":       "MAPSMITH_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "MAPSMITH_SERVER_WRITE_TIMEOUT",
		"server.environment":        "MAPSMITH_SERVER_ENVIRONMENT",
		"log.level":                 "MAPSMITH_LOG_LEVEL",
		"log.format":                "MAPSMITH_LOG_FORMAT",
		"llm.base_url":              "MAPSMITH_LLM_BASE_URL",
		"llm.api_key":               "MAPSMITH_LLM_API_KEY",
		"llm.ocr_model":             "MAPSMITH_LLM_OCR_MODEL",
		"llm.text_model":            "MAPSMITH_LLM_TEXT_MODEL",
		"llm.timeout_secs":          "MAPSMITH_LLM_TIMEOUT_SECS",
		"geocoder.provider":         "MAPSMITH_GEOCODER_PROVIDER",
		"geocoder.api_key":          "MAPSMITH_GEOCODER_API_KEY",
		"geocoder.request_interval": "MAPSMITH_GEOCODER_REQUEST_INTERVAL",
		"geocoder.address_prefix":   "MAPSMITH_GEOCODER_ADDRESS_PREFIX",
		"geocoder.clean_address":    "MAPSMITH_GEOCODER_CLEAN_ADDRESS",
		"upload.max_file_size_mb":   "MAPSMITH_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.allowed_formats":    "MAPSMITH_UPLOAD_ALLOWED_FORMATS",
		"session.ttl":               "MAPSMITH_SESSION_TTL",
		"session.cleanup_interval":  "MAPSMITH_SESSION_CLEANUP_INTERVAL",
		"cors.allowed_origins":      "MAPSMITH_CORS_ALLOWED_ORIGINS",
		"export.default_filename":   "MAPSMITH_EXPORT_DEFAULT_FILENAME",
		"s3.region":                 "MAPSMITH_S3_REGION",
		"s3.bucket":                 "MAPSMITH_S3_BUCKET",
		"s3.endpoint":               "MAPSMITH_S3_ENDPOINT",
		"s3.access_key":             "MAPSMITH_S3_ACCESS_KEY",
		"s3.secret_key":             "MAPSMITH_S3_SECRET_KEY",
		"s3.presign_expiry":         "MAPSMITH_S3_PRESIGN_EXPIRY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if MAPSMITH_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MAPSMITH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.LLM = LLMConfig{
		BaseURL:     v.GetString("llm.base_url"),
		APIKey:      v.GetString("llm.api_key"),
		OCRModel:    v.GetString("llm.ocr_model"),
		TextModel:   v.GetString("llm.text_model"),
		TimeoutSecs: v.GetInt("llm.timeout_secs"),
	}
	cfg.Geocoder = GeocoderConfig{
		Provider:        v.GetString("geocoder.provider"),
		APIKey:          v.GetString("geocoder.api_key"),
		RequestInterval: v.GetDuration("geocoder.request_interval"),
		AddressPrefix:   v.GetString("geocoder.address_prefix"),
		CleanAddress:    v.GetBool("geocoder.clean_address"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB:  v.GetInt64("upload.max_file_size_mb"),
		AllowedFormats: splitCSV(v.GetString("upload.allowed_formats")),
	}
	cfg.Session = SessionConfig{
		TTL:             v.GetDuration("session.ttl"),
		CleanupInterval: v.GetDuration("session.cleanup_interval"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Export = ExportConfig{
		DefaultFilename: v.GetString("export.default_filename"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
