// Package insights asks an OpenAI-compatible endpoint for a short
// business summary of the ledger. It never fails: any error substitutes
// a fixed neutral fallback, and the ledger never blocks on this call.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/momai-ledger/momai/internal/domain"
)

const defaultModel = "gpt-4o-mini"

// topDebtorCount limits how many outstanding customers the prompt names.
const topDebtorCount = 3

// Provider generates insights via chat completions. A nil-client
// provider (no API key) always answers with the fallback.
type Provider struct {
	client *openai.Client
	model  string
}

// New builds a provider. An empty apiKey disables remote calls.
func New(apiKey, model string) *Provider {
	if model == "" {
		model = defaultModel
	}
	p := &Provider{model: model}
	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	}
	return p
}

// NewWithClient is used by tests to point at a fake endpoint.
func NewWithClient(client *openai.Client, model string) *Provider {
	if model == "" {
		model = defaultModel
	}
	return &Provider{client: client, model: model}
}

// Fallback is the fixed neutral insight used when generation is
// unavailable for any reason.
func Fallback() domain.AIInsight {
	return domain.AIInsight{
		Summary: "Business is operating normally. Keep tracking your dues regularly.",
		ActionItems: []string{
			"Review pending payments",
			"Follow up with top debtors",
			"Maintain accurate records",
		},
	}
}

// BusinessInsights returns a summary and action items for the current
// ledger. Failures of any kind produce the fallback, never an error.
func (p *Provider) BusinessInsights(ctx context.Context, customers []domain.Customer, stats domain.BusinessStats) domain.AIInsight {
	if p.client == nil {
		return Fallback()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a business consultant for a small Indian ledger business. Always answer with valid JSON of the form {\"summary\": string, \"actionItems\": [string]}.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(customers, stats),
			},
		},
		Temperature: 0,
		MaxTokens:   400,
	})
	if err != nil {
		log.Warn().Err(err).Msg("insight generation failed, using fallback")
		return Fallback()
	}
	if len(resp.Choices) == 0 {
		log.Warn().Msg("insight response empty, using fallback")
		return Fallback()
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var insight domain.AIInsight
	if err := json.Unmarshal([]byte(content), &insight); err != nil || insight.Summary == "" {
		log.Warn().Err(err).Str("content", content).Msg("insight response unparseable, using fallback")
		return Fallback()
	}
	return insight
}

// buildPrompt summarizes the ledger for the model: headline aggregates
// plus the top debtors by outstanding due.
func buildPrompt(customers []domain.Customer, stats domain.BusinessStats) string {
	debtors := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if c.Due > 0 {
			debtors = append(debtors, c)
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].Due > debtors[j].Due })
	if len(debtors) > topDebtorCount {
		debtors = debtors[:topDebtorCount]
	}

	var top []string
	for _, d := range debtors {
		top = append(top, fmt.Sprintf("%s: ₹%.0f", d.Name, d.Due))
	}

	return fmt.Sprintf(`As a business consultant, analyze this ledger data for an Indian business:
Total Customers: %d
Total Sales: ₹%.0f
Total Due: ₹%.0f
Daily Sales: ₹%.0f
Monthly Sales: ₹%.0f

Top Debtors: %s

Provide a brief executive summary (max 2 sentences) and 3 specific action items for the business owner.`,
		len(customers), stats.TotalSales, stats.TotalDue, stats.DailySales, stats.MonthlySales,
		strings.Join(top, ", "))
}
