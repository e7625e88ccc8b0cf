package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/fractview/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fractview.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := writeConfig(t, `
iterations = 500
kind = "julia"
listen = ":7000"
framebuffer = "/dev/fb1"
save_dir = "/tmp/frames"
`)
	t.Setenv(config.EnvListenAddr, ":9000")
	t.Setenv(config.EnvFramebuf, "none")

	cmd, f := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--listen", ":8081", "-i", "64"}))

	cfg, err := resolveConfig(cmd, *f)
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Listen, "flag beats env and file")
	assert.Equal(t, "none", cfg.Framebuffer, "env beats file")
	assert.Equal(t, 64, cfg.Iterations, "flag beats file")
	assert.Equal(t, "julia", cfg.Kind, "file beats default")
	assert.Equal(t, "/tmp/frames", cfg.SaveDir)
	assert.Equal(t, config.DefaultWidth, cfg.Width, "unset flag keeps the default")
}

func TestResolveConfigIgnoresUnchangedFlagDefaults(t *testing.T) {
	path := writeConfig(t, `
width = 320
height = 200
kind = "lambda"
`)
	cmd, f := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	cfg, err := resolveConfig(cmd, *f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.Equal(t, "lambda", cfg.Kind)
}

func TestResolveConfigRejectsBadFlags(t *testing.T) {
	for name, args := range map[string][]string{
		"resolution": {"-r", "2x2"},
		"iterations": {"-i", "0"},
		"kind":       {"-k", "newton"},
		"constant":   {"-k", "julia", "-c", "oops"},
		"splash":     {"--splash=-1s"},
		"preset":     {"--preset", "nowhere"},
	} {
		t.Run(name, func(t *testing.T) {
			cmd, f := newRootCmd()
			require.NoError(t, cmd.ParseFlags(args))
			_, err := resolveConfig(cmd, *f)
			var cfgErr *config.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestExecuteHelpAndUnknownFlag(t *testing.T) {
	cmd, _ := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "--resolution")

	cmd, _ = newRootCmd()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--bogus"})
	assert.Error(t, cmd.Execute())
}

func TestExecuteStopsOnConfigurationError(t *testing.T) {
	cmd, _ := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"-r", "2x2", "--fb", "none", "--no-input"})
	err := cmd.Execute()
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "resolution", cfgErr.Field)
}

func TestReportErrorAddsUsageForConfigurationErrors(t *testing.T) {
	cmd, _ := newRootCmd()

	var out bytes.Buffer
	reportError(&out, cmd, &config.ConfigurationError{Field: "resolution", Err: errors.New("too small")})
	assert.Contains(t, out.String(), "fractview:")
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--resolution")

	out.Reset()
	reportError(&out, cmd, errors.New("framebuffer gone"))
	assert.Equal(t, "fractview: framebuffer gone\n", out.String())
}
