package config

import (
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tablegate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	tests := map[string]struct {
		file  string
		env   map[string]string
		check func(req *require.Assertions, cfg *Config)
		error string
	}{
		"defaults with required ids from env": {
			env: map[string]string{
				"TABLEGATE_PROJECT_ID":  "p",
				"TABLEGATE_INSTANCE_ID": "i",
			},
			check: func(req *require.Assertions, cfg *Config) {
				req.Equal("0.0.0.0", cfg.Server.Address)
				req.Equal(8080, cfg.Server.Port)
				req.Equal(4, cfg.Pool.Channels)
				req.Equal(30*time.Second, cfg.Pool.Timeout())
				req.Equal(3, cfg.Retry.MaxRetries)
				req.Equal(100*time.Millisecond, cfg.Retry.InitialDelay())
				req.Equal(5*time.Second, cfg.Retry.MaxDelay())
				req.Equal(0, cfg.ChangeFeed.Port)
			},
		},
		"file values": {
			file: `
server:
  address: 127.0.0.1
  port: 9000
debug: true
bigtable:
  projectId: proj
  instanceId: inst
  emulatorHost: localhost:8086
pool:
  channels: 2
  timeoutMs: 500
  workers: 8
retry:
  maxRetries: 0
auth:
  jwtSecret: s3cret
  issuer: tablegate
changeFeed:
  port: 32496
`,
			check: func(req *require.Assertions, cfg *Config) {
				req.Equal("127.0.0.1", cfg.Server.Address)
				req.Equal(9000, cfg.Server.Port)
				req.True(cfg.Debug)
				req.Equal(Bigtable{ProjectID: "proj", InstanceID: "inst", EmulatorHost: "localhost:8086"}, cfg.Bigtable)
				req.Equal(2, cfg.Pool.Channels)
				req.Equal(100, cfg.Pool.MaxRequestsPerChannel)
				req.Equal(500*time.Millisecond, cfg.Pool.Timeout())
				req.Equal(8, cfg.Pool.Workers)
				req.Equal(0, cfg.Retry.MaxRetries)
				req.Equal(Auth{JWTSecret: "s3cret", Issuer: "tablegate"}, cfg.Auth)
				req.Equal(ChangeFeed{Address: "127.0.0.1", Port: 32496}, cfg.ChangeFeed)
			},
		},
		"env overrides file": {
			file: `
bigtable:
  projectId: proj
  instanceId: inst
server:
  port: 9000
`,
			env: map[string]string{
				"TABLEGATE_SERVER_PORT":          "9100",
				"TABLEGATE_DEBUG":                "true",
				"BIGTABLE_EMULATOR_HOST":         "emu:8086",
				"GOOGLE_APPLICATION_CREDENTIALS": "/keys/sa.json",
				"TABLEGATE_RETRY_MULTIPLIER":     "1.5",
				"TABLEGATE_JWT_AUDIENCE":         "api",
			},
			check: func(req *require.Assertions, cfg *Config) {
				req.Equal(9100, cfg.Server.Port)
				req.True(cfg.Debug)
				req.Equal("emu:8086", cfg.Bigtable.EmulatorHost)
				req.Equal("/keys/sa.json", cfg.Bigtable.CredentialsFile)
				req.Equal(1.5, cfg.Retry.Multiplier)
				req.Equal("api", cfg.Auth.Audience)
			},
		},
		"malformed env": {
			env: map[string]string{
				"TABLEGATE_PROJECT_ID":    "p",
				"TABLEGATE_INSTANCE_ID":   "i",
				"TABLEGATE_POOL_CHANNELS": "many",
			},
			error: `invalid TABLEGATE_POOL_CHANNELS value: strconv.Atoi: parsing "many": invalid syntax`,
		},
		"malformed file": {
			file:  "server: [",
			error: "failed to parse config file",
		},
		"invalid values": {
			file: `
server:
  port: 0
pool:
  channels: 0
retry:
  maxRetries: 2
  initialDelayMs: 200
  maxDelayMs: 100
  multiplier: 0.5
`,
			error: "invalid server port: 0\n" +
				"bigtable project id is required\n" +
				"bigtable instance id is required\n" +
				"pool channels must be positive: 0\n" +
				"retry max delay 100 is below initial delay 200\n" +
				"retry multiplier must be at least 1: 0.5",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			for _, key := range []string{
				EnvConfigPath, "TABLEGATE_PROJECT_ID", "TABLEGATE_INSTANCE_ID",
				envEmulatorHost, envCredentials,
			} {
				t.Setenv(key, "")
				req.NoError(os.Unsetenv(key))
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			path := ""
			if tc.file != "" {
				path = writeFile(t, tc.file)
			}

			cfg, err := NewConfig(path)
			if tc.error != "" {
				req.Error(err)
				req.Contains(err.Error(), tc.error)
				return
			}
			req.NoError(err)
			tc.check(req, cfg)
		})
	}
}

func TestNewConfig_PathFromEnv(t *testing.T) {
	req := require.New(t)
	path := writeFile(t, "bigtable:\n  projectId: p\n  instanceId: i\nserver:\n  port: 7000\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := NewConfig("")
	req.NoError(err)
	req.Equal(7000, cfg.Server.Port)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}
