package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	cases := map[string]string{
		"apidoc.json": `{"input": ["a.yaml", "b.yaml"], "title": "Shop", "workers": 4, "badges": {"GET": "green"}}`,
		"apidoc.yaml": "input: [a.yaml, b.yaml]\ntitle: Shop\nworkers: 4\nbadges:\n  GET: green\n",
		"apidoc.toml": "input = [\"a.yaml\", \"b.yaml\"]\ntitle = \"Shop\"\nworkers = 4\n[badges]\nGET = \"green\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)

			cfg, err := Load(writeConfig(t, name, content))
			req.NoError(err)
			req.Equal([]string{"a.yaml", "b.yaml"}, cfg.Input)
			req.Equal("Shop", cfg.Title)
			req.Equal(4, cfg.Workers)
			req.Equal(map[string]string{"GET": "green"}, cfg.Badges)

			// defaults
			req.Equal(FormatHTML, cfg.Format)
			req.Equal("index.html", cfg.File)
			req.Equal(DefaultVersion, cfg.Version)
			req.Equal(".", cfg.Output)
			req.NoError(cfg.Validate())
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "apidoc.ini", "x=1"))
	require.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeConfig(t, "apidoc.json", "{"))
	require.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")
}

func TestApplyDefaults_FileFollowsFormat(t *testing.T) {
	cfg := &Config{Format: FormatOpenAPIYAML, Output: "docs"}
	cfg.ApplyDefaults()
	require.Equal(t, "openapi.yaml", cfg.File)
	require.Equal(t, filepath.Join("docs", "openapi.yaml"), cfg.Path())
	require.Equal(t, 1, cfg.Workers)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	require.ErrorContains(t, cfg.Validate(), "input or source is required")

	cfg.Source = "./handlers"
	require.NoError(t, cfg.Validate())

	cfg.Format = "pdf"
	require.ErrorContains(t, cfg.Validate(), "unsupported format")
}

func TestRead_KeepsUnsetFields(t *testing.T) {
	cfg, err := Read(writeConfig(t, "apidoc.yaml", "source: ./handlers\n"))
	require.NoError(t, err)
	require.Equal(t, "./handlers", cfg.Source)
	require.Empty(t, cfg.Format)
	require.Empty(t, cfg.File)
}
