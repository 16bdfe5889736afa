package model

type ProvisionRequest struct {
	CompanyName        string `json:"company_name"`
	ApiKey             string `json:"api_key,omitempty"`
	AutoRetrieveKey    bool   `json:"auto_retrieve_key,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	CompanyWebsite     string `json:"company_website,omitempty"`
	NumArticles        int    `json:"num_articles,omitempty"`
	NumQuestions       int    `json:"num_questions,omitempty"`
	NumConversations   int    `json:"num_conversations,omitempty"`
	NumActions         int    `json:"num_actions,omitempty"`
	DryRun             bool   `json:"dry_run,omitempty"`
}

// ApplyDefaults fills the counts the caller left at zero. Conversations
// default to one per generated question.
func (r *ProvisionRequest) ApplyDefaults() {
	if r.NumArticles <= 0 {
		r.NumArticles = 10
	}
	if r.NumQuestions <= 0 {
		r.NumQuestions = 70
	}
	if r.NumConversations <= 0 {
		r.NumConversations = r.NumQuestions
	}
	if r.NumActions <= 0 {
		r.NumActions = 2
	}
}

type ProvisionResult struct {
	Success              bool     `json:"success"`
	DryRun               bool     `json:"dry_run,omitempty"`
	CompanyName          string   `json:"company_name,omitempty"`
	BotHandle            string   `json:"bot_handle,omitempty"`
	BotUrl               string   `json:"bot_url,omitempty"`
	ApiKey               string   `json:"api_key,omitempty"`
	ArticlesCount        int      `json:"articles_count,omitempty"`
	ArticleTitles        []string `json:"article_titles,omitempty"`
	QuestionsCount       int      `json:"questions_count,omitempty"`
	ConversationsCreated int      `json:"conversations_created,omitempty"`
	ConversationsFailed  int      `json:"conversations_failed,omitempty"`
	ChannelId            string   `json:"channel_id,omitempty"`
	WebsiteSourceAdded   bool     `json:"website_source_added,omitempty"`
	ActionsImported      bool     `json:"actions_imported,omitempty"`
	DurationSeconds      float64  `json:"duration_seconds,omitempty"`
	Error                string   `json:"error,omitempty"`
}

// WorkflowContext accumulates the outputs of each phase. It is owned by a
// single run of the orchestrator and never shared between runs.
type WorkflowContext struct {
	WorkflowId           string
	CompanyName          string
	BotHandle            string
	BaseUrl              string
	ApiKey               string
	CompanyDescription   string
	Articles             []Article
	Questions            []string
	Actions              []ActionConfig
	ChannelId            string
	ConversationsCreated int
	ConversationsFailed  int
	WebsiteSourceAdded   bool
	ActionsImported      bool
}

type CrmWebhook struct {
	OpportunityId string `json:"opportunity_id"`
	AccountName   string `json:"account_name"`
	Stage         string `json:"stage"`
	ApiKey        string `json:"api_key,omitempty"`
}
