package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	cfg := `title = "Test"

[db]
gormEngine = "sqlite"
path = "` + filepath.ToSlash(filepath.Join(dir, "test.db")) + `"

[webserver]
port = 8080
url = "http://localhost:8080"

[admin]
username = "admin"
password = "secret"

[log.console]
enabled = false
`

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(cfg), 0o600))

	return dir + string(filepath.Separator)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestCommands(t *testing.T) {
	cfgDir := writeConfig(t)
	fixtures := "../internal/fixture/testdata/site.yaml"

	out, err := run(t, "--config", cfgDir, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "database migrated")

	out, err = run(t, "--config", cfgDir, "load", fixtures)
	require.NoError(t, err)
	assert.Contains(t, out, "3 templates, 3 pages")

	testCases := []struct {
		name             string
		args             []string
		expectedContains []string
	}{
		{
			name:             "resolve full path",
			args:             []string{"resolve", "home/blog"},
			expectedContains: []string{"home/blog (Home > Blog)", "template: base/article"},
		},
		{
			name:             "resolve with remainder",
			args:             []string{"resolve", "home/blog/missing"},
			expectedContains: []string{"home/blog", "rest:     missing"},
		},
		{
			name:             "resolve below site",
			args:             []string{"resolve", "--host", "example.com", "blog/first-post"},
			expectedContains: []string{"home/blog/first-post"},
		},
		{
			name:             "containers",
			args:             []string{"containers", "base/article"},
			expectedContains: []string{"body\nfooter\nmain"},
		},
		{
			name:             "config dump",
			args:             []string{"config", "dump"},
			expectedContains: []string{`title = "Test"`, `password = "secret"`},
		},
		{
			name:             "config dump json",
			args:             []string{"config", "dump", "--json"},
			expectedContains: []string{`"title": "Test"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, append([]string{"--config", cfgDir}, tc.args...)...)
			require.NoError(t, err)

			for _, s := range tc.expectedContains {
				assert.Contains(t, out, s)
			}
		})
	}

	t.Run("json dump hides passwords", func(t *testing.T) {
		out, err := run(t, "--config", cfgDir, "config", "dump", "--json")
		require.NoError(t, err)
		assert.NotContains(t, out, "secret")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := run(t, "--config", cfgDir, "containers", "nope")
		require.Error(t, err)
	})
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "--config", t.TempDir()+string(filepath.Separator), "migrate")
	require.Error(t, err)
}
