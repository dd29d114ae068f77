package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gophilo/gophilo/internal/logger"
	adapter "github.com/gophilo/gophilo/internal/logger/adapter/fiber"
)

type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	Page   uint   `json:"page"`
	Error  string `json:"error"`
}

func consoleConfig() adapter.Config {
	return adapter.Config{
		Config: logger.Log{
			EnableAccessLogToConsole: true,
			Console:                  logger.Console{Enabled: true},
			DisableCheckAlive:        true,
		},
		CheckAliveURI: "/checkalive",
	}
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name     string
		config   adapter.Config
		target   string
		expected *accessLine
	}{
		{
			name:   "console disabled",
			target: "/",
		},
		{
			name:     "page",
			config:   consoleConfig(),
			target:   "/",
			expected: &accessLine{IP: "0.0.0.0", Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com", Page: 7},
		},
		{
			name:     "raw uri with empty segments and query",
			config:   consoleConfig(),
			target:   "/blog//2024?page=2",
			expected: &accessLine{IP: "0.0.0.0", Status: fiber.StatusNotFound, URI: "/blog//2024?page=2", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:     "handler error",
			config:   consoleConfig(),
			target:   "/fail",
			expected: &accessLine{IP: "0.0.0.0", Status: fiber.StatusInternalServerError, URI: "/fail", Method: fiber.MethodGet, Host: "example.com", Error: "boom"},
		},
		{
			name:   "check alive is skipped",
			config: consoleConfig(),
			target: "/checkalive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := serve(t, tc.config, tc.target)

			if tc.expected == nil {
				assert.Empty(t, out)
				return
			}

			var line accessLine
			require.NoError(t, json.Unmarshal([]byte(out), &line), out)

			// unmatched routes carry the router error, only compare expected ones
			if tc.expected.Error == "" {
				line.Error = ""
			}

			assert.Equal(t, *tc.expected, line)
		})
	}
}

func TestNewAccessFile(t *testing.T) {
	dir := t.TempDir()

	cfg := adapter.Config{
		Config: logger.Log{
			File: logger.LogFile{
				Enabled: true,
				Path:    dir,
				Access:  logger.Rotation{File: "access.log"},
			},
		},
	}

	_ = serve(t, cfg, "/")

	data, err := os.ReadFile(filepath.Join(dir, "access.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"URI":"/"`)
}

func serve(t *testing.T, cfg adapter.Config, target string) string {
	t.Helper()

	stdout := os.Stdout

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	app := fiber.New()
	app.Use(adapter.New(cfg))

	app.Get("/", func(ctx *fiber.Ctx) error {
		ctx.Locals(adapter.LocalPage, uint(7))
		return ctx.SendString("home")
	})
	app.Get("/fail", func(*fiber.Ctx) error {
		return errors.New("boom") //nolint:err113
	})
	app.Get("/checkalive", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	_, err = app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)

	_ = w.Close()
	os.Stdout = stdout
	out := <-outC

	require.NoError(t, err)

	return out
}
