package flagx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serverFlags = []string{"-a", "-w", "-d", "-s", "-k", "-seed", "-l"}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "server flags kept, config stage flags dropped",
			args:    []string{"-c", "server.json", "-a", ":3200", "-w", ":8080", "-env", "prod.env"},
			allowed: serverFlags,
			want:    []string{"-a", ":3200", "-w", ":8080"},
		},
		{
			name:    "equals form",
			args:    []string{"-d=postgres://trips@db/trips?sslmode=disable", "-l", "debug"},
			allowed: []string{"-d"},
			want:    []string{"-d=postgres://trips@db/trips?sslmode=disable"},
		},
		{
			name:    "multi-letter flag",
			args:    []string{"-seed", "seed.yaml", "-s", "secret"},
			allowed: []string{"-seed"},
			want:    []string{"-seed", "seed.yaml"},
		},
		{
			name:    "dash-leading token is not a value",
			args:    []string{"-l", "-a", ":3200"},
			allowed: []string{"-l", "-a"},
			want:    []string{"-l", "-a", ":3200"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-a", ":3200", "-k"},
			allowed: serverFlags,
			want:    []string{"-a", ":3200", "-k"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"serve", "-w", ":8080", "extra"},
			allowed: serverFlags,
			want:    []string{"-w", ":8080"},
		},
		{
			name:    "repeats keep their order",
			args:    []string{"-l", "info", "-l=debug"},
			allowed: []string{"-l"},
			want:    []string{"-l", "info", "-l=debug"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":3200"},
			allowed: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"tripshare-server"}, args...)
}

func TestJsonConfigFlags(t *testing.T) {
	withArgs(t, "-a", ":3200", "-c", "/etc/tripshare/server.json")
	assert.Equal(t, "/etc/tripshare/server.json", JsonConfigFlags())

	withArgs(t, "-config=/etc/tripshare/alt.json", "-seed", "seed.yaml")
	assert.Equal(t, "/etc/tripshare/alt.json", JsonConfigFlags())

	withArgs(t, "-c", "first.json", "-config", "second.json")
	assert.Equal(t, "second.json", JsonConfigFlags())

	withArgs(t, "-w", ":8080")
	assert.Empty(t, JsonConfigFlags())
}

func TestEnvFileFlag(t *testing.T) {
	withArgs(t, "-d", "postgres://db", "-env", "/run/secrets/tripshare.env")
	assert.Equal(t, "/run/secrets/tripshare.env", EnvFileFlag())

	withArgs(t, "-env=local.env")
	assert.Equal(t, "local.env", EnvFileFlag())

	withArgs(t)
	assert.Empty(t, EnvFileFlag())
}

func TestLoadEnvFile_FromFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripshare.env")
	require.NoError(t, os.WriteFile(path, []byte("TRIPSHARE_REST_ADDRESS=:9090\nTRIPSHARE_LOG_LEVEL=debug\n"), 0o600))

	t.Setenv("TRIPSHARE_REST_ADDRESS", "")
	require.NoError(t, os.Unsetenv("TRIPSHARE_REST_ADDRESS"))
	t.Setenv("TRIPSHARE_LOG_LEVEL", "warn")

	withArgs(t, "-env", path)
	require.NoError(t, LoadEnvFile())
	assert.Equal(t, ":9090", os.Getenv("TRIPSHARE_REST_ADDRESS"))
	assert.Equal(t, "warn", os.Getenv("TRIPSHARE_LOG_LEVEL"), "set variables win over the file")
}

func TestLoadEnvFile_DefaultDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	withArgs(t)

	require.NoError(t, LoadEnvFile(), "no .env is not an error")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRIPSHARE_SEED_FILE=seed.yaml\n"), 0o600))
	t.Setenv("TRIPSHARE_SEED_FILE", "")
	require.NoError(t, os.Unsetenv("TRIPSHARE_SEED_FILE"))

	require.NoError(t, LoadEnvFile())
	assert.Equal(t, "seed.yaml", os.Getenv("TRIPSHARE_SEED_FILE"))
}

func TestLoadEnvFile_MissingFile(t *testing.T) {
	withArgs(t, "-env", filepath.Join(t.TempDir(), "missing.env"))
	err := LoadEnvFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.env")
}
