package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selected by DatabaseType.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
)

const (
	DefaultPort        = 3318
	DefaultFromEmail   = "Facility Vision <onboarding@resend.dev>"
	DefaultSendTimeout = 15 * time.Second
	DefaultServerURL   = "http://localhost:3318"

	// placeholderAPIKey is the value shipped in .env.example.
	placeholderAPIKey = "re_xxxxxxxxxxxx"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AdminPassword  string
	ResendAPIKey   string
	RecipientEmail string
	FromEmail      string
	CatalogPath    string
	SendTimeout    time.Duration
}

// EmailConfigured reports whether submissions can be emailed.
func (c Config) EmailConfigured() bool {
	return c.ResendAPIKey != ""
}

// StoreConfigured reports whether submissions are archived.
func (c Config) StoreConfigured() bool {
	return c.DatabaseURL != ""
}

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var timeout string

	fs := flag.NewFlagSet("facility-vision", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (empty disables the archive)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite or redis)")
	fs.StringVar(&cfg.CatalogPath, "catalog", "", "Question catalog YAML (default: built in)")
	fs.StringVar(&timeout, "send-timeout", "", "Delivery timeout per submission")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin API password (prefer env)")
	fs.StringVar(&cfg.ResendAPIKey, "resend-key", "", "Resend API key (prefer env)")
	fs.StringVar(&cfg.RecipientEmail, "recipient", "", "Address that receives submissions")
	fs.StringVar(&cfg.FromEmail, "from", "", "Sender address")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
	}
	if cfg.DatabaseType == "" && cfg.DatabaseURL != "" {
		cfg.DatabaseType = inferDatabaseType(cfg.DatabaseURL)
	}
	switch cfg.DatabaseType {
	case "", StorePostgres, StoreSQLite, StoreRedis:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = os.Getenv("CATALOG_PATH")
	}

	if timeout == "" {
		timeout = os.Getenv("SEND_TIMEOUT")
	}
	cfg.SendTimeout = DefaultSendTimeout
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			return Config{}, errors.New("invalid SEND_TIMEOUT (use a duration like 15s)")
		}
		cfg.SendTimeout = d
	}

	// Secrets - MUST be provided
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	// Email is optional; without a key submissions are accepted with a warning.
	if cfg.ResendAPIKey == "" {
		cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	}
	if cfg.ResendAPIKey == placeholderAPIKey {
		cfg.ResendAPIKey = ""
	}
	if cfg.RecipientEmail == "" {
		cfg.RecipientEmail = os.Getenv("RECIPIENT_EMAIL")
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = os.Getenv("FROM_EMAIL")
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = DefaultFromEmail
	}
	if cfg.ResendAPIKey != "" && cfg.RecipientEmail == "" {
		return Config{}, errors.New("RECIPIENT_EMAIL required when RESEND_API_KEY is set")
	}

	return cfg, nil
}

func inferDatabaseType(url string) string {
	switch {
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return StoreRedis
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return StorePostgres
	default:
		return StoreSQLite
	}
}

// ClientConfig configures the terminal respondent client.
type ClientConfig struct {
	ServerURL    string
	AutosavePath string
	CatalogPath  string
	Timeout      time.Duration
}

// AutosaveSQLite reports whether progress is kept in a SQLite file rather
// than a directory of JSON files.
func (c ClientConfig) AutosaveSQLite() bool {
	return strings.HasSuffix(c.AutosavePath, ".db")
}

// ParseClientFlags parses the respondent client's flags.
func ParseClientFlags(args []string) (ClientConfig, error) {
	var cfg ClientConfig

	fs := flag.NewFlagSet("respond", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "server", "", "Facility Vision server URL")
	fs.StringVar(&cfg.AutosavePath, "autosave", "", "Progress directory, or a .db file for SQLite")
	fs.StringVar(&cfg.CatalogPath, "catalog", "", "Question catalog YAML (default: built in)")
	fs.DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "Submission timeout")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, err
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = os.Getenv("FACILITY_VISION_SERVER")
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = os.Getenv("CATALOG_PATH")
	}
	if cfg.AutosavePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		cfg.AutosavePath = filepath.Join(dir, "facility-vision")
	}

	return cfg, nil
}
