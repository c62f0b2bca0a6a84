package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/planops/internal/planrules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDBPath, cfg.DB.Path)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DefaultBatchSize, cfg.Plan.BatchSize)
	assert.Equal(t, planrules.DueCurrentMonth, cfg.Plan.DuePolicy())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "planops.yaml", `
db:
  path: /var/lib/planops/plans.db
server:
  port: 9191
  shutdown_timeout: 3s
plan:
  monthly_due_policy: next_occurrence
  batch_size: 100
log:
  level: debug
  format: console
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/planops/plans.db", cfg.DB.Path)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, planrules.DueNextOccurrence, cfg.Plan.DuePolicy())
	assert.Equal(t, 100, cfg.Plan.BatchSize)
	assert.Equal(t, DefaultReadConcurrency, cfg.Plan.ReadConcurrency)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "planops.yaml", "plan:\n  batch_size: 100\n")
	t.Setenv("PLANOPS_PLAN_BATCH_SIZE", "25")
	t.Setenv("PLANOPS_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("PLANOPS_AUTH_CLI_ACTOR", "ops@agency.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Plan.BatchSize)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret.Value())
	assert.Equal(t, "[REDACTED]", cfg.Auth.JWTSecret.String())
	assert.Equal(t, "ops@agency.test", cfg.Auth.CLIActor)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeFile(t, "planops.yaml", "plan:\n  monthly_due_policy: weekly\nserver:\n  port: 70000\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monthly due policy")
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := writeFile(t, ".env", "PLANOPS_LOG_LEVEL=debug\nPLANOPS_DB_PATH=/tmp/from-dotenv.db\n")
	t.Setenv("PLANOPS_LOG_LEVEL", "warn")
	t.Setenv("PLANOPS_DB_PATH", "")
	require.NoError(t, os.Unsetenv("PLANOPS_DB_PATH"))

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "warn", os.Getenv("PLANOPS_LOG_LEVEL"))
	assert.Equal(t, "/tmp/from-dotenv.db", os.Getenv("PLANOPS_DB_PATH"))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "db.path", envKey("PLANOPS_DB_PATH"))
	assert.Equal(t, "plan.monthly_due_policy", envKey("PLANOPS_PLAN_MONTHLY_DUE_POLICY"))
	assert.Equal(t, "server.shutdown_timeout", envKey("PLANOPS_SERVER_SHUTDOWN_TIMEOUT"))
}
