package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "resumes", cfg.MinIO.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.MinIO.PublicEndpoint)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxResumeBytes)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadReadsEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_PATH", "/tmp/jobs.db")
	t.Setenv("API_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPLOAD_RESUME_URL_TTL", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/jobs.db", cfg.Database.DSN())
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, 2*time.Minute, cfg.Upload.ResumeURLTTL)
	assert.True(t, cfg.App.IsProduction())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestLoadRequiresMinioCredentials(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestDSNPerDriver(t *testing.T) {
	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: 5432, Name: "jobs", User: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=jobs sslmode=disable", pg.DSN())

	my := DatabaseConfig{Driver: DriverMySQL, Host: "db", Port: 3306, Name: "jobs", User: "u", Password: "p"}
	assert.Equal(t, "u:p@tcp(db:3306)/jobs?charset=utf8mb4&parseTime=True&loc=UTC", my.DSN())
}
