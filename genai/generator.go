package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Rafsilva0/demo-automation/logger"
	"github.com/Rafsilva0/demo-automation/model"
	"github.com/oliveagle/jsonpath"
	"go.uber.org/zap"
)

// KnowledgeSourceId is the fixed source grouping every generated article
// belongs to.
const KnowledgeSourceId = "demosource"

// Generator turns free-text model completions into validated structures.
// The last raw and cleaned responses are retained for inspection when a
// parse fails.
type Generator struct {
	completer Completer

	mu          sync.Mutex
	lastRaw     string
	lastCleaned string
}

func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

func (g *Generator) LastRaw() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRaw
}

func (g *Generator) LastCleaned() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastCleaned
}

func (g *Generator) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	raw, err := g.completer.Complete(ctx, prompt, maxTokens, temperature)
	if err != nil {
		return "", err
	}
	cleaned := CleanFences(raw)
	g.mu.Lock()
	g.lastRaw = raw
	g.lastCleaned = cleaned
	g.mu.Unlock()
	return cleaned, nil
}

// CompanyDescription generates free text; no structure to validate.
func (g *Generator) CompanyDescription(ctx context.Context, companyName string) (string, error) {
	desc, err := g.completer.Complete(ctx, descriptionPrompt(companyName), 4000, 0.7)
	if err != nil {
		return "", fmt.Errorf("company description generation failed: %w", err)
	}
	return strings.TrimSpace(desc), nil
}

// KnowledgeArticles generates exactly count articles. A malformed or
// wrong-length array gets exactly one retry with a shorter-content prompt;
// a second failure is final.
func (g *Generator) KnowledgeArticles(ctx context.Context, companyName string, companyDesc string, count int) ([]model.Article, error) {
	cleaned, err := g.complete(ctx, articlesPrompt(companyName, companyDesc, count, KnowledgeSourceId), 8000, 0.5)
	if err != nil {
		return nil, fmt.Errorf("article generation failed: %w", err)
	}

	articles, parseErr := parseArticles(cleaned, count)
	if parseErr == nil {
		return articles, nil
	}

	logger.Warn("article parse failed, retrying with shorter content",
		zap.Error(parseErr), zap.Int("responseLength", len(cleaned)))

	cleaned, err = g.complete(ctx, shortArticlesPrompt(companyName, companyDesc, count, KnowledgeSourceId), 8000, 0.5)
	if err != nil {
		return nil, fmt.Errorf("article generation retry failed: %w", err)
	}
	articles, retryErr := parseArticles(cleaned, count)
	if retryErr != nil {
		logger.Error("article parse failed after retry", zap.Error(retryErr))
		return nil, fmt.Errorf("failed to parse knowledge articles after retry: %w", retryErr)
	}
	return articles, nil
}

func parseArticles(cleaned string, count int) ([]model.Article, error) {
	var articles []model.Article
	if err := json.Unmarshal([]byte(cleaned), &articles); err != nil {
		return nil, fmt.Errorf("invalid article array: %w", err)
	}
	if len(articles) != count {
		return nil, fmt.Errorf("expected %d articles, got %d", count, len(articles))
	}
	return articles, nil
}

// CustomerQuestions generates a flat map question_1..question_N and
// returns the values in key order. Any failure is final.
func (g *Generator) CustomerQuestions(ctx context.Context, companyName string, articles []model.Article, count int) ([]string, error) {
	cleaned, err := g.complete(ctx, questionsPrompt(companyName, articles, count), 4000, 0.7)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	var questionMap map[string]string
	if err := json.Unmarshal([]byte(cleaned), &questionMap); err != nil {
		return nil, fmt.Errorf("invalid question object: %w", err)
	}

	keys := make([]string, 0, len(questionMap))
	for k := range questionMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return questionIndex(keys[i]) < questionIndex(keys[j])
	})

	questions := make([]string, 0, len(keys))
	for _, k := range keys {
		questions = append(questions, questionMap[k])
	}
	if len(questions) < count {
		return nil, fmt.Errorf("expected %d questions, got %d", count, len(questions))
	}
	return questions[:count], nil
}

func questionIndex(key string) int {
	idx := strings.LastIndex(key, "_")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// MockEndpoints generates the endpoint rule object plus matching action
// configs. Every rule and action must live in the handle-scoped path
// namespace so calls route to the right instance. Any failure is final.
func (g *Generator) MockEndpoints(ctx context.Context, companyName string, botHandle string, proxyBaseUrl string, count int) (*model.GeneratedEndpoints, error) {
	maxTokens := 500*count + 1000
	cleaned, err := g.complete(ctx, endpointsPrompt(companyName, botHandle, proxyBaseUrl, count), maxTokens, 0.7)
	if err != nil {
		return nil, fmt.Errorf("endpoint generation failed: %w", err)
	}

	var endpoints model.GeneratedEndpoints
	if err := json.Unmarshal([]byte(cleaned), &endpoints); err != nil {
		return nil, fmt.Errorf("invalid endpoint object: %w", err)
	}
	if len(endpoints.Rules) == 0 {
		return nil, fmt.Errorf("endpoint object contained no rules")
	}

	namespace := "/" + botHandle + "/"
	for name, rule := range endpoints.Rules {
		if err := validateRule(name, rule, namespace); err != nil {
			return nil, err
		}
	}
	for _, action := range endpoints.Actions {
		if !strings.Contains(action.Url, namespace) {
			return nil, fmt.Errorf("action %q url %q is outside namespace %q", action.Name, action.Url, namespace)
		}
	}
	return &endpoints, nil
}

// validateRule inspects the free-form rule map with jsonpath lookups: the
// match path must sit under the handle namespace and the response must
// carry a status.
func validateRule(name string, rule map[string]any, namespace string) error {
	value, err := jsonpath.JsonPathLookup(rule, "$.match.value")
	if err != nil {
		return fmt.Errorf("rule %q has no match.value: %w", name, err)
	}
	path, ok := value.(string)
	if !ok || !strings.HasPrefix(path, namespace) {
		return fmt.Errorf("rule %q path %v is outside namespace %q", name, value, namespace)
	}
	if _, err := jsonpath.JsonPathLookup(rule, "$.match.method"); err != nil {
		return fmt.Errorf("rule %q has no match.method: %w", name, err)
	}
	if _, err := jsonpath.JsonPathLookup(rule, "$.send.status"); err != nil {
		return fmt.Errorf("rule %q has no send.status: %w", name, err)
	}
	return nil
}

// CompleteAll issues a group of ancillary prompts concurrently and waits
// for all of them. Results keep prompt order; the first error wins.
func (g *Generator) CompleteAll(ctx context.Context, prompts []string, maxTokens int, temperature float64) ([]string, error) {
	results := make([]string, len(prompts))
	errs := make([]error, len(prompts))
	var wg sync.WaitGroup
	for i, prompt := range prompts {
		wg.Add(1)
		go func(i int, prompt string) {
			defer wg.Done()
			results[i], errs[i] = g.completer.Complete(ctx, prompt, maxTokens, temperature)
		}(i, prompt)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// CleanFences strips a wrapping markdown code fence from a model response.
func CleanFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	return strings.TrimSpace(cleaned)
}
