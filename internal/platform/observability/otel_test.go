package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "LOG_LEVEL", "OTEL_TRACES_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_TRACES_SAMPLER_ARG"} {
		t.Setenv(key, "")
	}

	s, err := SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "local", s.Environment)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Equal(t, ExporterOTLP, s.Exporter)
	assert.True(t, s.OTLPInsecure)
	assert.Equal(t, 1.0, s.SampleRatio)
}

func TestSettingsFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_TRACES_EXPORTER", "STDOUT")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	s, err := SettingsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "staging", s.Environment)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, ExporterStdout, s.Exporter)
	assert.False(t, s.OTLPInsecure)
	assert.Equal(t, 0.25, s.SampleRatio)
}

func TestSettingsFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"log level": {"LOG_LEVEL": "loud"},
		"exporter":  {"OTEL_TRACES_EXPORTER": "zipkin"},
		"ratio":     {"OTEL_TRACES_SAMPLER_ARG": "2"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for key, value := range env {
				t.Setenv(key, value)
			}
			_, err := SettingsFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestInstruments_NilProvidersFallBack(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))
}
