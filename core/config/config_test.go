package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimov-run/asimov/core/config"
)

type serviceConfig struct {
	Port int    `env:"ASIMOV_TEST_PORT" envDefault:"8080"`
	Name string `env:"ASIMOV_TEST_NAME" envDefault:"svc"`
}

func TestLoad_DefaultsAndCaching(t *testing.T) {
	config.Reset[serviceConfig]()
	t.Setenv("ASIMOV_TEST_PORT", "9090")

	var cfg serviceConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "svc", cfg.Name)

	t.Setenv("ASIMOV_TEST_PORT", "1111")
	var cfg2 serviceConfig
	require.NoError(t, config.Load(&cfg2))
	assert.Equal(t, 9090, cfg2.Port) // cached, env change ignored
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	config.Reset[requiredConfig]()
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}

type requiredConfig struct {
	APIKey string `env:"ASIMOV_TEST_REQUIRED_KEY,required"`
}
