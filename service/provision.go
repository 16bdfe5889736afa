package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rafsilva0/demo-automation/config"
	"github.com/Rafsilva0/demo-automation/genai"
	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/Rafsilva0/demo-automation/retry"
	"github.com/Rafsilva0/demo-automation/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type agentPlatform interface {
	BaseUrl(handle string) string
	CloneInstance(ctx context.Context, handle string) error
	CreateKnowledgeSource(ctx context.Context, baseUrl string, apiKey string, sourceId string, name string) error
	BulkUploadArticles(ctx context.Context, baseUrl string, apiKey string, articles []model.Article) error
	CreateChannel(ctx context.Context, baseUrl string, apiKey string, name string, description string) (string, error)
	CreateConversation(ctx context.Context, baseUrl string, apiKey string, channelId string) (string, string, error)
	CreateMessage(ctx context.Context, baseUrl string, apiKey string, conversationId string, endUserId string, content string) error
}

type rulePublisher interface {
	ProxyBaseUrl() string
	CreateRule(ctx context.Context, name string, rule map[string]any) error
}

type contentGenerator interface {
	CompanyDescription(ctx context.Context, companyName string) (string, error)
	KnowledgeArticles(ctx context.Context, companyName string, companyDesc string, count int) ([]model.Article, error)
	CustomerQuestions(ctx context.Context, companyName string, articles []model.Article, count int) ([]string, error)
	MockEndpoints(ctx context.Context, companyName string, botHandle string, proxyBaseUrl string, count int) (*model.GeneratedEndpoints, error)
}

type BrowserSession interface {
	RetrieveApiKey(handle string) (string, error)
	AddWebsiteSource(handle string, companyName string, websiteUrl string) error
	ImportActions(handle string, actions []model.ActionConfig) error
	Close()
}

type notifier interface {
	RunStarted(ctx context.Context, companyName string, workflowId string)
	RunCompleted(ctx context.Context, companyName string, botUrl string, durationSeconds float64)
	RunFailed(ctx context.Context, companyName string, workflowId string, sanitizedError string)
}

// ProgressFunc receives phase transitions as the workflow advances.
type ProgressFunc func(phase int, message string)

// ProvisionService runs the eight phase provisioning workflow. One
// browser session is opened lazily the first time a phase needs the
// dashboard and is shared by every later phase of the same run.
type ProvisionService struct {
	conf       config.Config
	platform   agentPlatform
	generator  contentGenerator
	rules      rulePublisher
	notify     notifier
	newSession func() (BrowserSession, error)
}

func NewProvisionService(conf config.Config, platform agentPlatform, generator contentGenerator,
	rules rulePublisher, notify notifier, newSession func() (BrowserSession, error)) *ProvisionService {
	return &ProvisionService{
		conf:       conf,
		platform:   platform,
		generator:  generator,
		rules:      rules,
		notify:     notify,
		newSession: newSession,
	}
}

// Execute runs all phases for one request and always returns a result.
// A failure in phases 1 through 7 ends the run with a sanitized error;
// phase 8 tasks are best effort and only degrade the result flags.
func (s *ProvisionService) Execute(ctx context.Context, req model.ProvisionRequest, progress ProgressFunc) *model.ProvisionResult {
	start := time.Now()
	req.ApplyDefaults()
	if progress == nil {
		progress = func(int, string) {}
	}

	wf := &model.WorkflowContext{
		WorkflowId:  uuid.NewString(),
		CompanyName: req.CompanyName,
	}
	result := &model.ProvisionResult{
		CompanyName: req.CompanyName,
		DryRun:      req.DryRun,
	}
	logger.Info("provisioning started",
		zap.String("workflowId", wf.WorkflowId),
		zap.String("company", req.CompanyName),
		zap.Bool("dryRun", req.DryRun))
	s.notify.RunStarted(ctx, req.CompanyName, wf.WorkflowId)

	var session BrowserSession
	defer func() {
		if session != nil {
			session.Close()
		}
	}()
	openSession := func() (BrowserSession, error) {
		if session != nil {
			return session, nil
		}
		opened, err := s.newSession()
		if err != nil {
			return nil, fmt.Errorf("failed to open browser session: %w", err)
		}
		session = opened
		return session, nil
	}

	fail := func(phase int, err error) *model.ProvisionResult {
		sanitized := util.SanitizeError(err)
		logger.Error("provisioning failed",
			zap.String("workflowId", wf.WorkflowId),
			zap.Int("phase", phase),
			zap.String("error", sanitized))
		result.Success = false
		result.Error = sanitized
		result.DurationSeconds = time.Since(start).Seconds()
		s.notify.RunFailed(ctx, req.CompanyName, wf.WorkflowId, sanitized)
		return result
	}

	progress(1, "deriving bot handle")
	wf.BotHandle = util.DeriveBotHandle(req.CompanyName)
	wf.BaseUrl = s.platform.BaseUrl(wf.BotHandle)
	result.BotHandle = wf.BotHandle
	result.BotUrl = wf.BaseUrl

	if req.DryRun {
		result.Success = true
		result.DurationSeconds = time.Since(start).Seconds()
		logger.Info("dry run, stopping after planning",
			zap.String("handle", wf.BotHandle))
		return result
	}

	progress(2, "cloning template instance")
	if err := s.platform.CloneInstance(ctx, wf.BotHandle); err != nil {
		return fail(2, err)
	}
	s.settle(ctx)

	progress(3, "obtaining api credential")
	switch {
	case req.ApiKey != "":
		wf.ApiKey = req.ApiKey
	case req.AutoRetrieveKey:
		key, err := retry.Do("api key retrieval", s.conf.Retry.MaxAttempts, s.conf.Retry.BaseDelaySeconds,
			func() (string, error) {
				browser, err := openSession()
				if err != nil {
					return "", err
				}
				return browser.RetrieveApiKey(wf.BotHandle)
			})
		if err != nil {
			return fail(3, err)
		}
		wf.ApiKey = key
	default:
		return fail(3, errors.New("no api key provided and automatic retrieval is disabled"))
	}
	result.ApiKey = wf.ApiKey

	progress(4, "generating knowledge base")
	description := req.CompanyDescription
	if description == "" {
		generated, err := s.generator.CompanyDescription(ctx, req.CompanyName)
		if err != nil {
			return fail(4, err)
		}
		description = generated
	}
	wf.CompanyDescription = description
	articles, err := s.generator.KnowledgeArticles(ctx, req.CompanyName, description, req.NumArticles)
	if err != nil {
		return fail(4, err)
	}
	wf.Articles = articles
	if err := s.platform.CreateKnowledgeSource(ctx, wf.BaseUrl, wf.ApiKey,
		genai.KnowledgeSourceId, req.CompanyName+" Knowledge"); err != nil {
		return fail(4, err)
	}
	if err := s.platform.BulkUploadArticles(ctx, wf.BaseUrl, wf.ApiKey, articles); err != nil {
		return fail(4, err)
	}
	result.ArticlesCount = len(articles)
	result.ArticleTitles = articleTitles(articles)

	progress(5, "generating customer questions")
	questions, err := s.generator.CustomerQuestions(ctx, req.CompanyName, articles, req.NumQuestions)
	if err != nil {
		return fail(5, err)
	}
	wf.Questions = questions
	result.QuestionsCount = len(questions)

	progress(6, "publishing mock endpoints")
	endpoints, err := s.generator.MockEndpoints(ctx, req.CompanyName, wf.BotHandle,
		s.rules.ProxyBaseUrl(), req.NumActions)
	if err != nil {
		return fail(6, err)
	}
	for name, rule := range endpoints.Rules {
		if err := s.rules.CreateRule(ctx, name, rule); err != nil {
			return fail(6, err)
		}
	}
	wf.Actions = endpoints.Actions

	progress(7, "seeding demo conversations")
	channelId, err := s.platform.CreateChannel(ctx, wf.BaseUrl, wf.ApiKey,
		req.CompanyName+" Demo", "Seeded demo conversations")
	if err != nil {
		return fail(7, err)
	}
	wf.ChannelId = channelId
	result.ChannelId = channelId
	seedQuestions := questions
	if req.NumConversations < len(seedQuestions) {
		seedQuestions = seedQuestions[:req.NumConversations]
	}
	seeder := NewConversationSeeder(s.platform, time.Duration(s.conf.PaceMillis)*time.Millisecond)
	seeded := seeder.CreateBatch(ctx, wf.BaseUrl, wf.ApiKey, channelId, seedQuestions)
	result.ConversationsCreated = seeded.Created
	result.ConversationsFailed = seeded.Failed

	progress(8, "finalizing instance")
	website := req.CompanyWebsite
	if website == "" {
		website = util.InferWebsiteUrl(req.CompanyName)
	}
	if _, err := retry.Do("website source", s.conf.Retry.MaxAttempts, s.conf.Retry.BaseDelaySeconds,
		func() (bool, error) {
			browser, err := openSession()
			if err != nil {
				return false, err
			}
			return true, browser.AddWebsiteSource(wf.BotHandle, req.CompanyName, website)
		}); err != nil {
		logger.Warn("website source skipped", zap.String("error", util.SanitizeError(err)))
	} else {
		result.WebsiteSourceAdded = true
	}
	if _, err := retry.Do("action import", s.conf.Retry.MaxAttempts, s.conf.Retry.BaseDelaySeconds,
		func() (bool, error) {
			browser, err := openSession()
			if err != nil {
				return false, err
			}
			return true, browser.ImportActions(wf.BotHandle, wf.Actions)
		}); err != nil {
		logger.Warn("action import skipped", zap.String("error", util.SanitizeError(err)))
	} else {
		result.ActionsImported = true
	}

	result.Success = true
	result.DurationSeconds = time.Since(start).Seconds()
	logger.Info("provisioning completed",
		zap.String("workflowId", wf.WorkflowId),
		zap.String("botUrl", result.BotUrl),
		zap.Float64("durationSeconds", result.DurationSeconds))
	s.notify.RunCompleted(ctx, req.CompanyName, result.BotUrl, result.DurationSeconds)
	return result
}

// settle waits for the cloned instance to become reachable before the
// first authenticated call is made against it.
func (s *ProvisionService) settle(ctx context.Context) {
	delay := time.Duration(s.conf.SettleDelaySeconds) * time.Second
	if delay <= 0 {
		return
	}
	logger.Info("waiting for instance to settle", zap.Duration("delay", delay))
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

func articleTitles(articles []model.Article) []string {
	titles := make([]string, 0, len(articles))
	for _, article := range articles {
		titles = append(titles, article.Name)
	}
	return titles
}
