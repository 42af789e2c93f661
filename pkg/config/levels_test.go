package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
	"github.com/fyrsmithlabs/logtree/pkg/logging/logtest"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.Debug},
		{"INFO", logging.Info},
		{"Warn", logging.Warning},
		{"warning", logging.Warning},
		{"critical", logging.Critical},
		{"fatal", logging.Critical},
		{"trace", logging.Trace},
		{"notset", logging.NotSet},
		{"25", logging.Level(25)},
		{" error ", logging.Error},
		{"", logging.Info},
		{"verbose", logging.Info},
		{"-5", logging.Info},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelForEnvironment(t *testing.T) {
	tests := map[string]logging.Level{
		"development": logging.Debug,
		"DEV":         logging.Debug,
		"testing":     logging.Warning,
		"test":        logging.Warning,
		"staging":     logging.Info,
		"production":  logging.Error,
		"prod":        logging.Error,
		"":            logging.Info,
		"qa":          logging.Info,
	}
	for env, want := range tests {
		assert.Equal(t, want, LevelForEnvironment(env), env)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset string
		level  logging.Level
	}{
		{"development", logging.Debug},
		{"production", logging.Error},
		{"testing", logging.Warning},
		{"test", logging.Warning},
		{"minimal", logging.Info},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			h := logtest.NewManager(t)

			applied, err := ApplyPreset(h.Manager, tt.preset, false)
			require.NoError(t, err)
			assert.True(t, applied)
			assert.Equal(t, tt.level, h.Config().Level())
			assert.Equal(t, tt.level, h.RootLogger().Level())
			assert.NotNil(t, h.Config().Formatter())
		})
	}
}

func TestApplyPreset_ForceAndUnknown(t *testing.T) {
	h := logtest.NewManager(t)

	applied, err := ApplyPreset(h.Manager, "production", false)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = ApplyPreset(h.Manager, "development", false)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, logging.Error, h.Config().Level())

	applied, err = ApplyPreset(h.Manager, "development", true)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, logging.Debug, h.Config().Level())

	_, err = ApplyPreset(h.Manager, "verbose", false)
	assert.ErrorContains(t, err, `unknown preset "verbose"`)
}

func TestMinimalPreset_MessageOnly(t *testing.T) {
	p, ok := LookupPreset("minimal")
	require.True(t, ok)

	r := logging.NewRecord("app", logging.Info, "INFO", "hello", nil, nil, nil)
	assert.Equal(t, "hello", p.Formatter().Format(r))
	assert.Equal(t, []string{"development", "minimal", "production", "testing"}, PresetNames())
}

func TestAutoConfigure(t *testing.T) {
	tests := []struct {
		env  string
		want logging.Level
	}{
		{"development", logging.Debug},
		{"production", logging.Error},
		{"test", logging.Warning},
		{"", logging.Info},
		{"staging", logging.Info},
	}
	for _, tt := range tests {
		t.Run("env="+tt.env, func(t *testing.T) {
			t.Setenv(EnvVar, tt.env)
			h := logtest.NewManager(t)

			assert.True(t, AutoConfigure(h.Manager))
			assert.Equal(t, tt.want, h.Config().Level())
			assert.False(t, AutoConfigure(h.Manager), "second call is a no-op")
		})
	}
}
