package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// SequenceConfig binds a number sequence to its display format.
type SequenceConfig struct {
	Kind   domain.SequenceKind `validate:"required"`
	Prefix string              `validate:"max=16"`
	Width  int                 `validate:"min=1,max=18"`
}

// Config holds application configuration.
type Config struct {
	DatabaseURL        string `validate:"required_if=StorageBackend postgres"`
	Port               string `validate:"required,numeric"`
	IsProduction       bool
	EnableDBCheck      bool
	JWTSecret          string `validate:"required,min=16"`
	JWTIssuer          string
	StorageBackend     string `validate:"oneof=postgres memory"`
	SequenceBackend    string `validate:"oneof=postgres redis memory"`
	RedisURL           string `validate:"required_if=SequenceBackend redis"`
	RateLimit          string `validate:"required"`
	CORSAllowedOrigins []string
	Sequences          []SequenceConfig `validate:"dive"`
	AccountRoles       AccountRoles
}

// SequenceDefinitions converts the configured sequences to domain definitions.
func (c *Config) SequenceDefinitions() []domain.SequenceDefinition {
	defs := make([]domain.SequenceDefinition, 0, len(c.Sequences))
	for _, s := range c.Sequences {
		defs = append(defs, domain.SequenceDefinition{Kind: s.Kind, Prefix: s.Prefix, Width: s.Width})
	}
	return defs
}

var sequenceDefaults = []SequenceConfig{
	{Kind: domain.SequenceInvoice, Prefix: "INV-", Width: 6},
	{Kind: domain.SequenceCustomer, Prefix: "CUST-", Width: 5},
	{Kind: domain.SequenceJournal, Prefix: "JE-", Width: 6},
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	return loadFrom(viper.New())
}

func loadFrom(v *viper.Viper) (*Config, error) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "accounting-ledger")
	v.SetDefault("STORAGE_BACKEND", BackendPostgres)
	v.SetDefault("SEQUENCE_BACKEND", BackendPostgres)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	for _, s := range sequenceDefaults {
		key := strings.ToUpper(string(s.Kind))
		v.SetDefault("SEQUENCE_"+key+"_PREFIX", s.Prefix)
		v.SetDefault("SEQUENCE_"+key+"_WIDTH", s.Width)
	}
	v.SetDefault("LEDGER_ACCOUNT_CASH", "")
	v.SetDefault("LEDGER_ACCOUNT_RECEIVABLE", "")
	v.SetDefault("LEDGER_ACCOUNT_REVENUE", "")
	v.SetDefault("LEDGER_ACCOUNT_SALES_TAX", "")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		StorageBackend:  strings.ToLower(v.GetString("STORAGE_BACKEND")),
		SequenceBackend: strings.ToLower(v.GetString("SEQUENCE_BACKEND")),
		RedisURL:        v.GetString("REDIS_URL"),
		RateLimit:       v.GetString("RATE_LIMIT"),
		AccountRoles: AccountRoles{
			Cash:       v.GetString("LEDGER_ACCOUNT_CASH"),
			Receivable: v.GetString("LEDGER_ACCOUNT_RECEIVABLE"),
			Revenue:    v.GetString("LEDGER_ACCOUNT_REVENUE"),
			SalesTax:   v.GetString("LEDGER_ACCOUNT_SALES_TAX"),
		},
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	for _, s := range sequenceDefaults {
		key := strings.ToUpper(string(s.Kind))
		cfg.Sequences = append(cfg.Sequences, SequenceConfig{
			Kind:   s.Kind,
			Prefix: v.GetString("SEQUENCE_" + key + "_PREFIX"),
			Width:  v.GetInt("SEQUENCE_" + key + "_WIDTH"),
		})
	}

	if cfg.DatabaseURL == "" && cfg.StorageBackend == BackendPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if missing := cfg.AccountRoles.Missing(); len(missing) > 0 {
		log.Printf("Warning: ledger account roles not configured: %s. Postings that need them will fail.\n", strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and backend combinations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.StorageBackend == BackendMemory && c.SequenceBackend == BackendPostgres {
		return fmt.Errorf("invalid configuration: SEQUENCE_BACKEND=postgres requires STORAGE_BACKEND=postgres")
	}
	if c.StorageBackend == BackendPostgres && c.SequenceBackend == BackendMemory {
		return fmt.Errorf("invalid configuration: SEQUENCE_BACKEND=memory requires STORAGE_BACKEND=memory")
	}
	return nil
}
