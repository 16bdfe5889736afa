package config

import (
	"errors"
	"fmt"
)

// Validate checks the settings the workflow cannot run without. Optional
// integrations (notifications, mock api, llm) are validated lazily by
// the components that use them.
func (c Config) Validate() error {
	if c.HttpPort <= 0 {
		return fmt.Errorf("invalid http port %d", c.HttpPort)
	}
	switch c.StorageType {
	case STORAGE_TYPE_REDIS:
		if len(c.RedisConfig.Addrs) == 0 || c.RedisConfig.Addrs[0] == "" {
			return errors.New("redis storage selected but no redis address configured")
		}
	case STORAGE_TYPE_INMEM:
	default:
		return fmt.Errorf("unknown storage type %s", c.StorageType)
	}
	if c.AgentPlatform.BaseDomain == "" {
		return errors.New("agent platform base domain is required")
	}
	if c.AgentPlatform.CloneUrl == "" {
		return errors.New("clone url is required")
	}
	if c.AgentPlatform.CloneSecret == "" {
		return errors.New("clone secret is required")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
