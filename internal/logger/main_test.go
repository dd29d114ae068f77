package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gophilo/gophilo/internal/logger"
)

func TestInit(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
		expectedError    error
	}{
		{
			name:          "log level not set",
			cfg:           logger.Log{LogLevel: "nope", ServiceName: "test", AppName: "test"},
			expectedError: errors.New("loglevel nope is not supported"),
		},
		{
			name:          "service name missing",
			cfg:           logger.Log{LogLevel: "info", AppName: "test"},
			expectedError: logger.ErrServiceNameIsEmpty,
		},
		{
			name:          "app name missing",
			cfg:           logger.Log{LogLevel: "info", ServiceName: "test"},
			expectedError: logger.ErrAppNameIsEmpty,
		},
		{
			name: "no logger enabled",
			cfg:  logger.Log{LogLevel: "info", ServiceName: "test", AppName: "test"},
		},
		{
			name: "console writer",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console json",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
		{
			name: "console json trace with stack",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := captureOutput(t, tc.cfg)
			if tc.expectedError != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError.Error())

				return
			}

			require.NoError(t, err)

			if !tc.shouldHaveOutPut {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if tc.outPutIsJSON {
				for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
					var entry map[string]any
					require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
					assert.Equal(t, "test", entry["app"])
				}
			}
		})
	}
}

func TestInitFiles(t *testing.T) {
	dir := t.TempDir()

	cfg := logger.Log{
		LogLevel:    "trace",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled: true,
			Path:    dir,
			Error:   logger.Rotation{File: "error.log"},
			Info:    logger.Rotation{File: "info.log"},
			Trace:   logger.Rotation{File: "trace.log"},
			Warn:    logger.Rotation{File: "warn.log"},
		},
	}

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("info line")
	log.Warn().Msg("warn line")
	log.Error().Msg("error line")
	log.Trace().Msg("trace line")

	for file, expected := range map[string]string{
		"info.log":  "info line",
		"warn.log":  "warn line",
		"error.log": "error line",
		"trace.log": "trace line",
	} {
		data, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err)
		assert.Contains(t, string(data), expected)
		assert.Equal(t, 1, strings.Count(string(data), "\n"), file)
	}

	t.Run("missing file name", func(t *testing.T) {
		cfg.File.Warn.File = ""
		require.ErrorIs(t, logger.Init(cfg), logger.ErrLogFileNameIsEmpty)
	})
}

func TestLevelWriter(t *testing.T) {
	var info, errs bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, ErrorWriter: &errs}

	n, err := lw.WriteLevel(zerolog.WarnLevel, []byte("dropped"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = lw.WriteLevel(zerolog.DebugLevel, []byte("debug"))
	require.NoError(t, err)

	_, err = lw.WriteLevel(zerolog.FatalLevel, []byte("fatal"))
	require.NoError(t, err)

	n, err = lw.WriteLevel(zerolog.Disabled, []byte("off"))
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, "debug", info.String())
	assert.Equal(t, "fatal", errs.String())
}

func captureOutput(t *testing.T, cfg logger.Log) (string, error) {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	initErr := logger.Init(cfg)
	if initErr == nil {
		log.Info().Msg("this info message should be seen...")
		log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...") //nolint:err113
	}

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	return <-outC, initErr
}
