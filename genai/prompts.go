package genai

import (
	"fmt"
	"strings"

	"github.com/Rafsilva0/demo-automation/model"
)

func descriptionPrompt(companyName string) string {
	return fmt.Sprintf(`Generate a comprehensive company description for %s.
Include: company overview, main products/services, target market.
Write 150-250 words in a professional tone.`, companyName)
}

func articlesPrompt(companyName string, companyDesc string, count int, knowledgeSourceId string) string {
	return fmt.Sprintf(`You are an expert content writer for a company knowledge base.

Return a single valid JSON array of %d FAQ articles for: %s

Each article must have:
- A clear, question-style title in the "name" field
- A detailed body (120-200 words) in the "content" field
- The same "knowledge_source_id": "%s"
- A string "id" from "1" to "%d"

Company description: %s

CRITICAL: Respond with **one single JSON array only**. No markdown. No text outside JSON.

[
  {"id": "1", "name": "Question 1?", "content": "120-200 word answer...", "knowledge_source_id": "%s"},
  ...%d objects total...
]`, count, companyName, knowledgeSourceId, count, companyDesc, knowledgeSourceId, count)
}

// shortArticlesPrompt is the self-correction variant: materially shorter
// bodies so the response fits inside the token budget without truncation.
func shortArticlesPrompt(companyName string, companyDesc string, count int, knowledgeSourceId string) string {
	return fmt.Sprintf(`You are an expert content writer for a company knowledge base.

Return a single valid JSON array of %d FAQ articles for: %s

Each article must have:
- A clear, question-style title in the "name" field
- A concise body (60-80 words MAX) in the "content" field
- The same "knowledge_source_id": "%s"
- A string "id" from "1" to "%d"

Company description: %s

CRITICAL: Respond with **one single JSON array only**. No markdown. No text outside JSON. Keep content SHORT.

[
  {"id": "1", "name": "Question 1?", "content": "60-80 word answer.", "knowledge_source_id": "%s"},
  ...%d objects total...
]`, count, companyName, knowledgeSourceId, count, companyDesc, knowledgeSourceId, count)
}

func questionsPrompt(companyName string, articles []model.Article, count int) string {
	var context strings.Builder
	for i, a := range articles {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "Article %s: %s\n%s", a.Id, a.Name, a.Content)
	}
	return fmt.Sprintf(`Generate exactly %d realistic customer questions for %s.

Knowledge Base:
%s

Return ONLY a JSON object:
{"question_1": "How can I...", "question_2": "What is...", ... "question_%d": "When do..."}

No markdown. No text outside JSON.`, count, companyName, context.String(), count)
}

func endpointsPrompt(companyName string, botHandle string, proxyBaseUrl string, count int) string {
	var rulesSchema strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&rulesSchema, `    "use_case_%d_rule": {
      "enabled": true,
      "mock": true,
      "delay": 0,
      "match": {"method": "GET or POST", "value": "/%s/meaningful_endpoint_name_%d", "operator": "SW"},
      "send": {"status": 200, "body": "realistic JSON response as escaped string", "headers": {"Content-Type": "application/json"}, "templated": false}
    }`, i, botHandle, i)
		if i < count {
			rulesSchema.WriteString(",\n")
		}
	}
	var actionsSchema strings.Builder
	for i := 1; i <= count; i++ {
		fmt.Fprintf(&actionsSchema, `    {
      "name": "Descriptive action %d name",
      "description": "What this action does for the customer",
      "url": "%s/%s/meaningful_endpoint_name_%d",
      "headers": [],
      "inputs": [],
      "outputs": [{"id": "output%d", "name": "output", "key": "*", "is_visible_to_llm": true, "save_as_variable": false, "variable_name": ""}],
      "request_body": "",
      "content_type": "json",
      "method": "GET or POST"
    }`, i, proxyBaseUrl, botHandle, i, i)
		if i < count {
			actionsSchema.WriteString(",\n")
		}
	}
	return fmt.Sprintf(`You are creating mock API endpoints for %s. First, identify what industry this company is in (e.g., e-commerce/retail, banking, healthcare, telecommunications, insurance, etc.).

Then create %d realistic mock rule configurations that represent common customer support use cases for that industry. Each use case should be distinct and cover a different customer need.

Examples by industry:
- E-commerce/Retail: order_tracking, product_availability, return_status, loyalty_points
- Banking: account_balance, transaction_history, card_activation, loan_status
- Healthcare: appointment_scheduling, prescription_status, test_results, referral_status
- Telecommunications: plan_details, usage_info, service_status, bill_summary
- Insurance: claim_status, policy_details, coverage_check, renewal_quote

For %s, create %d endpoints with:
1. Descriptive endpoint paths (not generic like "status_check")
2. Realistic response bodies with relevant fields for that industry
3. Appropriate HTTP methods (GET for queries, POST for actions)
4. Each endpoint should be a genuinely distinct customer support use case

Return ONLY this JSON structure with NO markdown formatting:
{
  "industry": "detected industry name",
  "result": {
%s
  },
  "ada_actions": [
%s
  ]
}`, companyName, count, companyName, count, rulesSchema.String(), actionsSchema.String())
}
