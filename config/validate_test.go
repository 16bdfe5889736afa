package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		HttpPort:    8080,
		StorageType: STORAGE_TYPE_INMEM,
		AgentPlatform: AgentPlatformConfig{
			BaseDomain:  "example.com",
			CloneUrl:    "https://template.example.com/clone",
			CloneSecret: "secret",
		},
		Retry: RetryConfig{MaxAttempts: 3, BaseDelaySeconds: 2},
	}
}

func TestValidate(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"valid config": func(t *testing.T) {
			require.NoError(t, validConfig().Validate())
		},
		"missing base domain": func(t *testing.T) {
			conf := validConfig()
			conf.AgentPlatform.BaseDomain = ""
			require.ErrorContains(t, conf.Validate(), "base domain")
		},
		"missing clone secret": func(t *testing.T) {
			conf := validConfig()
			conf.AgentPlatform.CloneSecret = ""
			require.ErrorContains(t, conf.Validate(), "clone secret")
		},
		"redis storage without address": func(t *testing.T) {
			conf := validConfig()
			conf.StorageType = STORAGE_TYPE_REDIS
			require.ErrorContains(t, conf.Validate(), "redis address")
		},
		"unknown storage type": func(t *testing.T) {
			conf := validConfig()
			conf.StorageType = "cassandra"
			require.ErrorContains(t, conf.Validate(), "unknown storage type")
		},
		"zero retry attempts": func(t *testing.T) {
			conf := validConfig()
			conf.Retry.MaxAttempts = 0
			require.ErrorContains(t, conf.Validate(), "retry max attempts")
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}
