package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybox/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "./data/moneybox.db", cfg.ConnectionString())
	assert.Equal(t, config.BackupNone, cfg.Backup.Provider)
	assert.Equal(t, time.Hour, cfg.Recurring.Interval)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "money")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "box")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://money:secret@db:5432/box?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*config.Config) {},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *config.Config) { c.DB.Driver = "mysql" },
			wantErr: `invalid DB_DRIVER "mysql"`,
		},
		{
			name:    "bad amqp scheme",
			mutate:  func(c *config.Config) { c.AMQP.URL = "http://localhost" },
			wantErr: "invalid AMQP_URL scheme",
		},
		{
			name: "drive without credentials",
			mutate: func(c *config.Config) {
				c.Backup.Provider = config.BackupDrive
				c.Backup.DriveFolderID = "folder"
			},
			wantErr: "GOOGLE_SERVICE_ACCOUNT_FILE",
		},
		{
			name: "backup with postgres",
			mutate: func(c *config.Config) {
				c.DB.Driver = config.DriverPostgres
				c.Backup.Provider = config.BackupLocal
			},
			wantErr: "only supported with the sqlite driver",
		},
		{
			name:    "interval too short",
			mutate:  func(c *config.Config) { c.Recurring.Interval = time.Second },
			wantErr: "invalid RECURRING_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load()
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
