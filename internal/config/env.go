package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
    Send          bool
    APIKey        string
    OrgID         string
    Dataset       string
    FlushInterval time.Duration
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
    Port              string
    UploadTimeout     time.Duration
    UploadConcurrency int
}

// StorageConfig defines where data and uploads live.
type StorageConfig struct {
    DataDir     string
    UploadDir   string
    MaxUploadMB int
    Backend     string // "local" | "s3"
    S3Bucket    string
    S3Prefix    string
}

// RedisConfig defines the draft session store connectivity. An empty URL
// selects the in-memory store.
type RedisConfig struct {
    URL      string
    DraftTTL time.Duration
}

// AdminConfig carries the per-role staff passwords.
type AdminConfig struct {
    Admin1Password     string
    Admin2Password     string
    SuperAdminPassword string
}

// Config is the top-level configuration.
type Config struct {
    Logging LoggingConfig
    Axiom   AxiomConfig
    Server  ServerConfig
    Storage StorageConfig
    Redis   RedisConfig
    Admin   AdminConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
    cfg := Config{}

    cfg.Logging = LoggingConfig{
        Level:      getEnv("LOG_LEVEL", "info"),
        Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
        File:       getEnv("LOG_FILE", "logs/impression.log"),
        MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
        MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
        MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
        Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
    }

    baseDataset := getEnv("AXIOM_DATASET", "dev")
    cfg.Axiom = AxiomConfig{
        Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
        APIKey:        getEnv("AXIOM_API_KEY", ""),
        OrgID:         getEnv("AXIOM_ORG_ID", ""),
        Dataset:       baseDataset + "_impression",
        FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
    }

    cfg.Server = ServerConfig{
        Port:              getEnv("PORT", "8080"),
        UploadTimeout:     parseDuration(getEnv("UPLOAD_TIMEOUT", "30s"), 30*time.Second),
        UploadConcurrency: parseInt(getEnv("UPLOAD_CONCURRENCY", "4"), 4),
    }

    cfg.Storage = StorageConfig{
        DataDir:     getEnv("DATA_DIR", "data"),
        UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
        MaxUploadMB: parseInt(getEnv("MAX_UPLOAD_MB", "50"), 50),
        Backend:     strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
        S3Bucket:    getEnv("AWS_S3_BUCKET", ""),
        S3Prefix:    getEnv("AWS_S3_PREFIX", "uploads"),
    }

    cfg.Redis = RedisConfig{
        URL:      getEnv("REDIS_URL", ""),
        DraftTTL: parseDuration(getEnv("DRAFT_TTL", "24h"), 24*time.Hour),
    }

    cfg.Admin = AdminConfig{
        Admin1Password:     getEnv("ADMIN_PASSWORD", ""),
        Admin2Password:     getEnv("ADMIN2_PASSWORD", ""),
        SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", ""),
    }

    return cfg
}

// Helpers
func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseInt(s string, def int) int {
    if s == "" { return def }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return def
}

func parseBool(s string) bool {
    v := strings.ToLower(strings.TrimSpace(s))
    return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
    if s == "" { return def }
    if d, err := time.ParseDuration(s); err == nil { return d }
    return def
}

func devDefaultPretty() string {
    env := strings.ToLower(os.Getenv("ENVIRONMENT"))
    if env == "dev" || env == "development" || env == "local" { return "true" }
    return "false"
}
