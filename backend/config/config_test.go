package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "UPLOAD_DIR", "JWT_SECRET", "TEMPLATES_DIR"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8088", cfg.Port)
	assert.Equal(t, "forum.db", cfg.DatabasePath)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	clearEnv(t)

	path := filepath.Join(dir, "yatube.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\ndatabase_path: blog.db\n"), 0o644))
	t.Setenv("DATABASE_PATH", "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "env.db", cfg.DatabasePath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
