package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Books"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"books"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Session struct {
		Secret string        `envconfig:"SESSION_SECRET" required:"true"`
		TTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	}

	Mercury struct {
		BaseURL string `envconfig:"MERCURY_BASE_URL" default:"https://splendorlord.xyz/api/v1"`
		Token   string `envconfig:"MERCURY_KEY" required:"true"`

		// Account numbers of the organization's own accounts. The income
		// account is where client payments land; the LLC and studio
		// accounts fund expenses. Transactions between any of these are
		// internal and excluded from income/expense math.
		IncomeAccount string `envconfig:"MERCURY_INCOME_ACCOUNT" required:"true"`
		LLCAccount    string `envconfig:"MERCURY_LLC_ACCOUNT" required:"true"`
		StudioAccount string `envconfig:"MERCURY_STUDIO_ACCOUNT" required:"true"`

		// Transaction listing starts at this date; nothing older is shown.
		TransactionStart string `envconfig:"MERCURY_TRANSACTION_START" default:"2024-09-01"`

		// Recipient entry for the org itself, hidden from the
		// distribution recipient list.
		SelfRecipient string `envconfig:"MERCURY_SELF_RECIPIENT" default:"Bathing Culture PBC"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
