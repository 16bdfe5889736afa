package model

// Article is one generated knowledge-base entry. Ids are the strings
// "1".."N" within a batch and every article carries the same fixed
// knowledge source id.
type Article struct {
	Id                string `json:"id"`
	Name              string `json:"name"`
	Content           string `json:"content"`
	KnowledgeSourceId string `json:"knowledge_source_id"`
}

type ActionOutput struct {
	Id             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Key            string `json:"key"`
	IsVisibleToLlm bool   `json:"is_visible_to_llm"`
	SaveAsVariable bool   `json:"save_as_variable"`
	VariableName   string `json:"variable_name"`
}

// ActionConfig describes one importable action. Its URL lives in the same
// handle-scoped path namespace as the mock endpoint rule it targets.
type ActionConfig struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Url         string         `json:"url"`
	Headers     []any          `json:"headers"`
	Inputs      []any          `json:"inputs"`
	Outputs     []ActionOutput `json:"outputs"`
	RequestBody string         `json:"request_body"`
	ContentType string         `json:"content_type"`
	Method      string         `json:"method"`
}

// GeneratedEndpoints is the endpoint-generation shape: free-form mock
// rules keyed by use case, plus the action configs that point at them.
type GeneratedEndpoints struct {
	Industry string                    `json:"industry"`
	Rules    map[string]map[string]any `json:"result"`
	Actions  []ActionConfig            `json:"ada_actions"`
}
