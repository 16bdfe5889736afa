package config

type StorageType string

const STORAGE_TYPE_REDIS StorageType = "redis"
const STORAGE_TYPE_INMEM StorageType = "memory"

type Config struct {
	HttpPort           int
	StorageType        StorageType
	RedisConfig        RedisStorageConfig
	InMemoryConfig     InmemStorageConfig
	AgentPlatform      AgentPlatformConfig
	MockApi            MockApiConfig
	Llm                LlmConfig
	Browser            BrowserConfig
	Retry              RetryConfig
	NotifyWebhookUrl   string
	SettleDelaySeconds int
	PaceMillis         int
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

type InmemStorageConfig struct {
	RetentionMinutes int
}

type AgentPlatformConfig struct {
	BaseDomain  string
	CloneUrl    string
	CloneSecret string
	Email       string
	Password    string
}

type MockApiConfig struct {
	RulesUrl     string
	AuthToken    string
	ProxyBaseUrl string
}

type LlmConfig struct {
	ApiKey  string
	BaseUrl string
	Model   string
}

type BrowserConfig struct {
	Headless           bool
	StepTimeoutSeconds int
	ScreenshotDir      string
}

type RetryConfig struct {
	MaxAttempts      int
	BaseDelaySeconds int
}
