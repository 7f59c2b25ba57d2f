package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"ledgersync"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"ledgersync"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Plaid struct {
		ClientID string        `envconfig:"PLAID_CLIENT_ID"`
		Secret   string        `envconfig:"PLAID_SECRET"`
		Env      string        `envconfig:"PLAID_ENV" default:"sandbox"`
		Timeout  time.Duration `envconfig:"PLAID_TIMEOUT" default:"30s"`
		// Rate is the allowed request rate per second.
		Rate float64 `envconfig:"PLAID_RATE" default:"5"`
		// Accounts maps a display name to the item's access token, e.g. "checking:access-sandbox-...".
		Accounts map[string]string `envconfig:"PLAID_ACCOUNTS"`
	}

	Sync struct {
		WindowDays  int           `envconfig:"SYNC_WINDOW_DAYS" default:"30"`
		PageSize    int           `envconfig:"SYNC_PAGE_SIZE" default:"500"`
		MaxPages    int           `envconfig:"SYNC_MAX_PAGES" default:"1000"`
		Parallelism int           `envconfig:"SYNC_PARALLELISM" default:"1"`
		Balances    bool          `envconfig:"SYNC_BALANCES" default:"false"`
		StaleAfter  time.Duration `envconfig:"SYNC_STALE_AFTER" default:"72h"`
	}

	API struct {
		JWTSecret      string   `envconfig:"API_JWT_SECRET"`
		AllowedOrigins []string `envconfig:"API_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// AccountNames returns the configured account names in a stable order.
func (c *Config) AccountNames() []string {
	names := make([]string, 0, len(c.Plaid.Accounts))
	for name := range c.Plaid.Accounts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
