package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	fakeCreator
	cloneErr      error
	cloned        []string
	sourceCreated bool
	uploaded      []model.Article
	channelErr    error
	channels      int
}

func (f *fakePlatform) BaseUrl(handle string) string {
	return "https://" + handle + ".example.com"
}

func (f *fakePlatform) CloneInstance(ctx context.Context, handle string) error {
	if f.cloneErr != nil {
		return f.cloneErr
	}
	f.cloned = append(f.cloned, handle)
	return nil
}

func (f *fakePlatform) CreateKnowledgeSource(ctx context.Context, baseUrl string, apiKey string, sourceId string, name string) error {
	f.sourceCreated = true
	return nil
}

func (f *fakePlatform) BulkUploadArticles(ctx context.Context, baseUrl string, apiKey string, articles []model.Article) error {
	f.uploaded = articles
	return nil
}

func (f *fakePlatform) CreateChannel(ctx context.Context, baseUrl string, apiKey string, name string, description string) (string, error) {
	if f.channelErr != nil {
		return "", f.channelErr
	}
	f.channels++
	return "64c0ffee64c0ffee64c0ffee", nil
}

type fakeGenerator struct {
	descriptions int
}

func (f *fakeGenerator) CompanyDescription(ctx context.Context, companyName string) (string, error) {
	f.descriptions++
	return companyName + " sells widgets.", nil
}

func (f *fakeGenerator) KnowledgeArticles(ctx context.Context, companyName string, companyDesc string, count int) ([]model.Article, error) {
	articles := make([]model.Article, count)
	for i := range articles {
		articles[i] = model.Article{
			Id:      fmt.Sprintf("article-%d", i),
			Name:    fmt.Sprintf("Article %d", i),
			Content: "Body.",
		}
	}
	return articles, nil
}

func (f *fakeGenerator) CustomerQuestions(ctx context.Context, companyName string, articles []model.Article, count int) ([]string, error) {
	questions := make([]string, count)
	for i := range questions {
		questions[i] = fmt.Sprintf("Question %d?", i)
	}
	return questions, nil
}

func (f *fakeGenerator) MockEndpoints(ctx context.Context, companyName string, botHandle string, proxyBaseUrl string, count int) (*model.GeneratedEndpoints, error) {
	return &model.GeneratedEndpoints{
		Industry: "widgets",
		Rules: map[string]map[string]any{
			"order_status": {"match": map[string]any{"value": "/" + botHandle + "/orders"}},
		},
		Actions: []model.ActionConfig{{Name: "Check order status"}},
	}, nil
}

type fakeRules struct {
	created []string
}

func (f *fakeRules) ProxyBaseUrl() string { return "https://mock.example.com" }

func (f *fakeRules) CreateRule(ctx context.Context, name string, rule map[string]any) error {
	f.created = append(f.created, name)
	return nil
}

type fakeSession struct {
	keyErrs    []error
	key        string
	keyCalls   int
	websiteErr error
	website    bool
	actionsErr error
	actions    bool
	closed     bool
}

func (f *fakeSession) RetrieveApiKey(handle string) (string, error) {
	call := f.keyCalls
	f.keyCalls++
	if call < len(f.keyErrs) {
		return "", f.keyErrs[call]
	}
	return f.key, nil
}

func (f *fakeSession) AddWebsiteSource(handle string, companyName string, websiteUrl string) error {
	if f.websiteErr != nil {
		return f.websiteErr
	}
	f.website = true
	return nil
}

func (f *fakeSession) ImportActions(handle string, actions []model.ActionConfig) error {
	if f.actionsErr != nil {
		return f.actionsErr
	}
	f.actions = true
	return nil
}

func (f *fakeSession) Close() { f.closed = true }

type fakeNotifier struct {
	started   int
	completed int
	failed    []string
}

func (f *fakeNotifier) RunStarted(ctx context.Context, companyName string, workflowId string) {
	f.started++
}

func (f *fakeNotifier) RunCompleted(ctx context.Context, companyName string, botUrl string, durationSeconds float64) {
	f.completed++
}

func (f *fakeNotifier) RunFailed(ctx context.Context, companyName string, workflowId string, sanitizedError string) {
	f.failed = append(f.failed, sanitizedError)
}

type fixture struct {
	conf      config.Config
	platform  *fakePlatform
	generator *fakeGenerator
	rules     *fakeRules
	session   *fakeSession
	notify    *fakeNotifier
	sessions  int
}

func newFixture() *fixture {
	return &fixture{
		conf: config.Config{
			Retry: config.RetryConfig{MaxAttempts: 3, BaseDelaySeconds: 0},
		},
		platform:  &fakePlatform{},
		generator: &fakeGenerator{},
		rules:     &fakeRules{},
		session:   &fakeSession{key: "0123456789abcdef0123456789abcdef"},
		notify:    &fakeNotifier{},
	}
}

func (f *fixture) service() *ProvisionService {
	return NewProvisionService(f.conf, f.platform, f.generator, f.rules, f.notify,
		func() (BrowserSession, error) {
			f.sessions++
			return f.session, nil
		})
}

func TestExecute(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"full run with explicit key": func(t *testing.T) {
			f := newFixture()
			var phases []int
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName:      "Acme Corp!",
				ApiKey:           "provided-key",
				NumArticles:      5,
				NumQuestions:     20,
				NumConversations: 20,
			}, func(phase int, message string) {
				phases = append(phases, phase)
			})
			require.True(t, result.Success)
			require.Empty(t, result.Error)
			require.Equal(t, "acmecorp-ai-agent-demo", result.BotHandle)
			require.Equal(t, "https://acmecorp-ai-agent-demo.example.com", result.BotUrl)
			require.Equal(t, "provided-key", result.ApiKey)
			require.Equal(t, 5, result.ArticlesCount)
			require.Len(t, result.ArticleTitles, 5)
			require.Equal(t, 20, result.QuestionsCount)
			require.Equal(t, 20, result.ConversationsCreated)
			require.Equal(t, 0, result.ConversationsFailed)
			require.NotEmpty(t, result.ChannelId)
			require.True(t, result.WebsiteSourceAdded)
			require.True(t, result.ActionsImported)
			require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, phases)
			require.Equal(t, []string{"order_status"}, f.rules.created)
			require.True(t, f.session.closed)
			require.Equal(t, 1, f.notify.completed)
			require.Empty(t, f.notify.failed)
		},
		"auto retrieval succeeds after transient failures": func(t *testing.T) {
			f := newFixture()
			f.session.keyErrs = []error{errors.New("dialog not found"), errors.New("dialog not found")}
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName:     "Acme",
				AutoRetrieveKey: true,
			}, nil)
			require.True(t, result.Success)
			require.Equal(t, f.session.key, result.ApiKey)
			require.Equal(t, 3, f.session.keyCalls)
			require.Equal(t, 1, f.sessions)
		},
		"auto retrieval exhaustion fails the run": func(t *testing.T) {
			f := newFixture()
			f.session.keyErrs = []error{
				errors.New(`key "missing"`),
				errors.New(`key "missing"`),
				errors.New(`key "missing"`),
			}
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName:     "Acme",
				AutoRetrieveKey: true,
			}, nil)
			require.False(t, result.Success)
			require.Contains(t, result.Error, "after 3 attempts")
			require.NotContains(t, result.Error, `"`)
			require.False(t, f.platform.sourceCreated)
			require.True(t, f.session.closed)
			require.Len(t, f.notify.failed, 1)
		},
		"missing credential configuration fails early": func(t *testing.T) {
			f := newFixture()
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName: "Acme",
			}, nil)
			require.False(t, result.Success)
			require.Contains(t, result.Error, "no api key")
			require.Equal(t, 0, f.sessions)
			require.Len(t, f.platform.cloned, 1)
		},
		"clone rejection stops before any generation": func(t *testing.T) {
			f := newFixture()
			f.platform.cloneErr = errors.New("clone rejected: status code 403")
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName: "Acme",
				ApiKey:      "key",
			}, nil)
			require.False(t, result.Success)
			require.Contains(t, result.Error, "status code 403")
			require.Equal(t, 0, f.generator.descriptions)
			require.False(t, f.platform.sourceCreated)
		},
		"dry run plans without side effects": func(t *testing.T) {
			f := newFixture()
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName: "Mega Dijon's",
				DryRun:      true,
			}, nil)
			require.True(t, result.Success)
			require.True(t, result.DryRun)
			require.Equal(t, "megadijons-ai-agent-demo", result.BotHandle)
			require.Empty(t, f.platform.cloned)
			require.Equal(t, 0, f.sessions)
		},
		"finalize tasks degrade instead of failing": func(t *testing.T) {
			f := newFixture()
			f.session.websiteErr = errors.New("dialog never opened")
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName: "Acme",
				ApiKey:      "key",
			}, nil)
			require.True(t, result.Success)
			require.Empty(t, result.Error)
			require.False(t, result.WebsiteSourceAdded)
			require.True(t, result.ActionsImported)
		},
		"conversation count truncates the question list": func(t *testing.T) {
			f := newFixture()
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName:      "Acme",
				ApiKey:           "key",
				NumQuestions:     10,
				NumConversations: 4,
			}, nil)
			require.True(t, result.Success)
			require.Equal(t, 10, result.QuestionsCount)
			require.Equal(t, 4, result.ConversationsCreated)
		},
		"provided description skips generation": func(t *testing.T) {
			f := newFixture()
			result := f.service().Execute(context.Background(), model.ProvisionRequest{
				CompanyName:        "Acme",
				ApiKey:             "key",
				CompanyDescription: "Acme already has a bio.",
			}, nil)
			require.True(t, result.Success)
			require.Equal(t, 0, f.generator.descriptions)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}
