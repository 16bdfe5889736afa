package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Rafsilva0/demo-automation/agent"
	"github.com/Rafsilva0/demo-automation/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "memory", "implementation of underline job storage")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "demoautomation", "namespace used in storage")
	cmd.Flags().Int("retention-minutes", 1440, "in memory job retention in minutes")
	cmd.Flags().String("base-domain", "", "agent platform base domain")
	cmd.Flags().String("clone-url", "", "template clone endpoint url")
	cmd.Flags().String("clone-secret", "", "shared secret for the clone endpoint")
	cmd.Flags().String("dashboard-email", "", "dashboard login email")
	cmd.Flags().String("dashboard-password", "", "dashboard login password")
	cmd.Flags().String("llm-api-key", "", "api key for the content generation model")
	cmd.Flags().String("llm-base-url", "https://api.anthropic.com", "base url for the content generation api")
	cmd.Flags().String("llm-model", "claude-sonnet-4-20250514", "model used for content generation")
	cmd.Flags().String("mock-rules-url", "", "mock api rule management url")
	cmd.Flags().String("mock-auth-token", "", "auth token for the mock api")
	cmd.Flags().String("mock-proxy-url", "", "public base url of the mock api")
	cmd.Flags().String("notify-webhook-url", "", "webhook url for run notifications")
	cmd.Flags().Bool("headless", true, "run the browser headless")
	cmd.Flags().Int("browser-step-timeout", 60, "browser step timeout in seconds")
	cmd.Flags().String("screenshot-dir", "", "directory for diagnostic screenshots")
	cmd.Flags().Int("retry-max-attempts", 3, "max attempts for retryable steps")
	cmd.Flags().Int("retry-base-delay", 2, "base delay in seconds for exponential backoff")
	cmd.Flags().Int("settle-delay", 30, "seconds to wait after cloning an instance")
	cmd.Flags().Int("pace-millis", 500, "delay in milliseconds between bulk creations")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.InMemoryConfig.RetentionMinutes = viper.GetInt("retention-minutes")
	c.cfg.AgentPlatform.BaseDomain = viper.GetString("base-domain")
	c.cfg.AgentPlatform.CloneUrl = viper.GetString("clone-url")
	c.cfg.AgentPlatform.CloneSecret = viper.GetString("clone-secret")
	c.cfg.AgentPlatform.Email = viper.GetString("dashboard-email")
	c.cfg.AgentPlatform.Password = viper.GetString("dashboard-password")
	c.cfg.Llm.ApiKey = viper.GetString("llm-api-key")
	c.cfg.Llm.BaseUrl = viper.GetString("llm-base-url")
	c.cfg.Llm.Model = viper.GetString("llm-model")
	c.cfg.MockApi.RulesUrl = viper.GetString("mock-rules-url")
	c.cfg.MockApi.AuthToken = viper.GetString("mock-auth-token")
	c.cfg.MockApi.ProxyBaseUrl = viper.GetString("mock-proxy-url")
	c.cfg.NotifyWebhookUrl = viper.GetString("notify-webhook-url")
	c.cfg.Browser.Headless = viper.GetBool("headless")
	c.cfg.Browser.StepTimeoutSeconds = viper.GetInt("browser-step-timeout")
	c.cfg.Browser.ScreenshotDir = viper.GetString("screenshot-dir")
	c.cfg.Retry.MaxAttempts = viper.GetInt("retry-max-attempts")
	c.cfg.Retry.BaseDelaySeconds = viper.GetInt("retry-base-delay")
	c.cfg.SettleDelaySeconds = viper.GetInt("settle-delay")
	c.cfg.PaceMillis = viper.GetInt("pace-millis")
	return c.cfg.Validate()
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	var err error
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		panic(err)
	}
	err = agent.Start()
	if err != nil {
		panic(err)
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "demo-automation",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
