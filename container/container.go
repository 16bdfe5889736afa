package container

import (
	"time"

	"github.com/Rafsilva0/demo-automation/browser"
	"github.com/Rafsilva0/demo-automation/client/agentapi"
	"github.com/Rafsilva0/demo-automation/client/mockapi"
	"github.com/Rafsilva0/demo-automation/client/notify"
	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/genai"
	"github.com/Rafsilva0/demo-automation/persistence"
	"github.com/Rafsilva0/demo-automation/persistence/inmem"
	rd "github.com/Rafsilva0/demo-automation/persistence/redis"
	"github.com/Rafsilva0/demo-automation/service"
)

type DIContainer struct {
	initialized      bool
	jobStore         persistence.JobStore
	agentClient      *agentapi.Client
	mockClient       *mockapi.Client
	notifyClient     *notify.Client
	generator        *genai.Generator
	provisionService *service.ProvisionService
	jobService       *service.JobService
}

func (d *DIContainer) setInitialized() {
	d.initialized = true
}

func NewDiContainer() *DIContainer {
	return &DIContainer{
		initialized: false,
	}
}

func (d *DIContainer) Init(conf config.Config) {
	defer d.setInitialized()

	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		d.jobStore = rd.NewJobStore(conf.RedisConfig)
	default:
		d.jobStore = inmem.NewJobStore(conf.InMemoryConfig)
	}

	d.agentClient = agentapi.NewClient(conf.AgentPlatform)
	d.mockClient = mockapi.NewClient(conf.MockApi)
	d.notifyClient = notify.NewClient(conf.NotifyWebhookUrl)
	d.generator = genai.NewGenerator(genai.NewClient(conf.Llm))

	browserConf := browser.Config{
		Email:         conf.AgentPlatform.Email,
		Password:      conf.AgentPlatform.Password,
		BaseDomain:    conf.AgentPlatform.BaseDomain,
		Headless:      conf.Browser.Headless,
		StepTimeout:   time.Duration(conf.Browser.StepTimeoutSeconds) * time.Second,
		ScreenshotDir: conf.Browser.ScreenshotDir,
	}
	newSession := func() (service.BrowserSession, error) {
		session, err := browser.NewSession(browserConf)
		if err != nil {
			return nil, err
		}
		return session, nil
	}

	d.provisionService = service.NewProvisionService(conf, d.agentClient, d.generator,
		d.mockClient, d.notifyClient, newSession)
	d.jobService = service.NewJobService(d.jobStore, d.provisionService)
}

func (d *DIContainer) GetJobStore() persistence.JobStore {
	if !d.initialized {
		panic("container not initalized")
	}
	return d.jobStore
}

func (d *DIContainer) GetJobService() *service.JobService {
	if !d.initialized {
		panic("container not initalized")
	}
	return d.jobService
}

func (d *DIContainer) GetProvisionService() *service.ProvisionService {
	if !d.initialized {
		panic("container not initalized")
	}
	return d.provisionService
}
