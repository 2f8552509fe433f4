package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BackupNone  = "none"
	BackupLocal = "local"
	BackupDrive = "drive"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Moneybox"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
		Locale    string `envconfig:"LOCALE" default:"en"`
		LogFile   string `envconfig:"TUI_LOG_FILE" default:"./data/tui.log"`
	}

	DB struct {
		Driver     string `envconfig:"DB_DRIVER" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_DB_PATH" default:"./data/moneybox.db"`
		Host       string `envconfig:"DB_HOST" default:"localhost"`
		Port       int    `envconfig:"DB_PORT" default:"5432"`
		User       string `envconfig:"DB_USER" default:"postgres"`
		Password   string `envconfig:"DB_PASSWORD" default:""`
		Name       string `envconfig:"DB_NAME" default:"moneybox"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		JWTSecret   string        `envconfig:"JWT_SECRET"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"moneybox"`
		Queue    string `envconfig:"AMQP_QUEUE" default:"database_updated"`
	}

	Backup struct {
		Provider        string `envconfig:"BACKUP_PROVIDER" default:"none"`
		LocalDir        string `envconfig:"BACKUP_LOCAL_DIR" default:"./data/backup"`
		DriveFolderID   string `envconfig:"BACKUP_DRIVE_FOLDER_ID"`
		CredentialsFile string `envconfig:"GOOGLE_SERVICE_ACCOUNT_FILE"`
		CredentialsJSON string `envconfig:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	}

	Recurring struct {
		Interval time.Duration `envconfig:"RECURRING_INTERVAL" default:"1h"`
	}
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.DB.Driver == DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return c.DB.SQLitePath
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.App.Port < 1 || c.App.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.App.Port))
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.DB.SQLitePath) == "" {
			problems = append(problems, "SQLITE_DB_PATH cannot be empty when using the sqlite driver")
		}
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			problems = append(problems, "DB_HOST and DB_NAME are required when using the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid DB_DRIVER %q: must be one of %v", c.DB.Driver,
			[]string{DriverSQLite, DriverPostgres}))
	}

	if c.AMQP.URL != "" {
		u, err := url.Parse(c.AMQP.URL)
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL: %v", err))
		case u.Scheme != "amqp" && u.Scheme != "amqps":
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL scheme %q: must be amqp or amqps", u.Scheme))
		}

		if c.AMQP.Exchange == "" || c.AMQP.Queue == "" {
			problems = append(problems, "AMQP_EXCHANGE and AMQP_QUEUE are required when AMQP_URL is set")
		}
	}

	providers := []string{BackupNone, BackupLocal, BackupDrive}
	if !slices.Contains(providers, c.Backup.Provider) {
		problems = append(problems, fmt.Sprintf("invalid BACKUP_PROVIDER %q: must be one of %v", c.Backup.Provider, providers))
	}

	if c.Backup.Provider != BackupNone && c.DB.Driver != DriverSQLite {
		problems = append(problems, "backups are only supported with the sqlite driver")
	}

	if c.Backup.Provider == BackupLocal && c.Backup.LocalDir == "" {
		problems = append(problems, "BACKUP_LOCAL_DIR is required for the local backup provider")
	}

	if c.Backup.Provider == BackupDrive {
		if c.Backup.DriveFolderID == "" {
			problems = append(problems, "BACKUP_DRIVE_FOLDER_ID is required for the drive backup provider")
		}

		if c.Backup.CredentialsFile == "" && c.Backup.CredentialsJSON == "" {
			problems = append(problems,
				"either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON is required for the drive backup provider")
		}
	}

	if c.Recurring.Interval < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid RECURRING_INTERVAL %v: must be at least 1 minute", c.Recurring.Interval))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}

	return nil
}
