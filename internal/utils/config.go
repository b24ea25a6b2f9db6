package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application's configuration
type Config struct {
	App struct {
		Env  string // "dev", "prod", "test"
		Port string
	}
	Leads struct {
		File string // Path of the persisted leads CSV
	}
	Assets struct {
		Logo  string // Logo image shown on the visitor pages
		Guide string // The PDF guide gated behind submission
	}
	Admin struct {
		Username     string
		Password     string // Plaintext credential, dev convenience
		PasswordHash string // bcrypt hash, preferred in prod
	}
	CSRFKey []byte // 32-byte key for form tokens
}

// LoadConfig loads the application config from a .env file
func LoadConfig(path ...string) (*Config, error) {
	// Attempt to load .env file. If path is provided, use it.
	// godotenv.Load() is fine for development; in prod, env vars are
	// usually set directly.
	envPath := ".env"
	if len(path) > 0 {
		envPath = path[0]
	}
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Info: No .env file found at %s, relying on environment variables. Error: %v", envPath, err)
	}

	var cfg Config

	cfg.App.Env = strings.ToLower(os.Getenv("SERVER_ENV"))
	if cfg.App.Env == "" {
		cfg.App.Env = "dev" // Default to development
	}

	cfg.App.Port = os.Getenv("SERVER_PORT")
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}

	cfg.Leads.File = os.Getenv("LEADS_FILE")
	if cfg.Leads.File == "" {
		cfg.Leads.File = "leads.csv"
	}

	cfg.Assets.Logo = os.Getenv("LOGO_PATH")
	if cfg.Assets.Logo == "" {
		cfg.Assets.Logo = "Stirling_QR_Logo.png"
	}

	cfg.Assets.Guide = os.Getenv("GUIDE_PATH")
	if cfg.Assets.Guide == "" {
		cfg.Assets.Guide = "document.pdf"
	}

	cfg.Admin.Username = os.Getenv("ADMIN_USERNAME")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	if cfg.Admin.Username == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME must be set")
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	key, err := loadCSRFKey(cfg.App.Env)
	if err != nil {
		return nil, err
	}
	cfg.CSRFKey = key

	return &cfg, nil
}

// loadCSRFKey reads the form-token secret from CSRF_KEY (hex-encoded, 32
// bytes). In prod the key must be set; in dev a random per-startup key is
// generated, which invalidates open forms on restart.
func loadCSRFKey(env string) ([]byte, error) {
	if keyHex := os.Getenv("CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if env == "prod" {
		return nil, fmt.Errorf("CSRF_KEY is required in prod")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate CSRF key: %w", err)
	}
	log.Println("WARNING: using a random CSRF key. Set CSRF_KEY for production.")
	return key, nil
}

// ValidateAssets checks once at startup that the static assets the visitor
// flow depends on actually exist. A missing asset is fatal for the whole
// application before any view renders.
func (c *Config) ValidateAssets() error {
	var missing []string
	for name, path := range map[string]string{
		"LOGO":  c.Assets.Logo,
		"GUIDE": c.Assets.Guide,
	} {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s)", name, path))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing files: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsDevelopment returns whether the application is in development configuration or not
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "dev"
}
