package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Eval.Quality)
	assert.Equal(t, 1e-3, cfg.Eval.Epsilon)
	assert.Equal(t, 10.0, cfg.Eval.Backoff)
	assert.Equal(t, 4096, cfg.Eval.MaxDepth)
	assert.Equal(t, "!LPE", cfg.MetaTag)
	assert.Equal(t, "", cfg.PaletteFile)
	assert.False(t, cfg.Edges)
	assert.Equal(t, 100*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{"quality", "CSGPART_EVAL_QUALITY", "32", func(c Config) any { return c.Eval.Quality }, 32},
		{"epsilon", "CSGPART_EVAL_EPSILON", "0.01", func(c Config) any { return c.Eval.Epsilon }, 0.01},
		{"backoff", "CSGPART_EVAL_BACKOFF", "4", func(c Config) any { return c.Eval.Backoff }, 4.0},
		{"max_depth", "CSGPART_EVAL_MAX_DEPTH", "128", func(c Config) any { return c.Eval.MaxDepth }, 128},
		{"meta_tag", "CSGPART_META_TAG", "!CSG", func(c Config) any { return c.MetaTag }, "!CSG"},
		{"edges", "CSGPART_EDGES", "true", func(c Config) any { return c.Edges }, true},
		{"debounce", "CSGPART_WATCH_DEBOUNCE", "250ms", func(c Config) any { return c.WatchDebounce }, 250 * time.Millisecond},
		{"log_level", "CSGPART_LOG_LEVEL", "debug", func(c Config) any { return c.SlogLevel() }, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			InitEnv()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.field(cfg))
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()
	path := filepath.Join(t.TempDir(), ".csgpart.yaml")
	require.NoError(t, os.WriteFile(path, []byte("eval:\n  quality: 24\nedges: true\n"), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Eval.Quality)
	assert.Equal(t, 1e-3, cfg.Eval.Epsilon)
	assert.True(t, cfg.Edges)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		key  string
		val  any
		want string
	}{
		{"eval.quality", 49, "eval.quality"},
		{"eval.quality", 0, "eval.quality"},
		{"eval.epsilon", -1.0, "eval.epsilon"},
		{"eval.backoff", 1.0, "eval.backoff"},
		{"eval.max_depth", 0, "eval.max_depth"},
		{"meta_tag", "", "meta_tag"},
		{"log_level", "loud", "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadPalette(t *testing.T) {
	src := `colours:
  - code: 4
    name: Red
    rgba: "#FF0000"
  - code: 500
    rgba: "#00FF0080"
`
	p, err := ReadPalette(strings.NewReader(src))
	require.NoError(t, err)

	red := p.Lookup(4)
	assert.Equal(t, 4, red.Code)
	assert.Equal(t, float32(1), red.R)
	assert.Equal(t, float32(0), red.G)

	custom := p.Lookup(500)
	assert.Equal(t, 500, custom.Code)
	assert.InDelta(t, 0.5, custom.A, 0.01)

	// Defaults not named in the file survive.
	_, ok := p[15]
	assert.True(t, ok)
}

func TestReadPaletteErrors(t *testing.T) {
	for name, src := range map[string]string{
		"bad rgba":      "colours:\n  - code: 4\n    rgba: red\n",
		"palette code":  "colours:\n  - code: 4\n    rgba: \"7\"\n",
		"negative code": "colours:\n  - code: -1\n    rgba: \"#000000\"\n",
		"unknown field": "colors:\n  - code: 4\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPalette(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadPalette(t *testing.T) {
	p, err := LoadPalette("")
	require.NoError(t, err)
	assert.NotEmpty(t, p)

	_, err = LoadPalette(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colours:\n  - code: 9\n    rgba: \"#102030\"\n"), 0o644))
	p, err = LoadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, 9, p.Lookup(9).Code)
	assert.True(t, p.Lookup(9).R > 0)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadPalette(empty)
	assert.NoError(t, err)
}
