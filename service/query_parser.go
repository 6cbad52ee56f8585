package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tieubaoca/filing-rag-be/types"
	"go.uber.org/zap"
)

const extractionPrompt = `You are an entity extraction assistant for a financial document search system.
Extract stock ticker symbols and time periods from the user's question.

Rules:
1. Tickers: Extract company stock symbols (e.g., AMZN, AAPL, GOOGL, MSFT).
   - If a company name is mentioned (e.g., "Amazon"), convert to ticker (AMZN).
   - Return as uppercase list, or null if no company is mentioned.

2. Period: Extract fiscal quarter and year in format "Q#-YYYY" (e.g., "Q3-2025").
   - "last quarter" or "most recent quarter" -> use CURRENT_QUARTER
   - "Q3 2025" or "third quarter 2025" -> "Q3-2025"
   - Return null if no period is mentioned.

3. needs_clarification: Set to true if:
   - Multiple companies could be inferred but unclear which one
   - Time period is ambiguous (e.g., "recently" without specifics)
   - The question is too vague to determine what data is needed

4. clarification_message: If needs_clarification is true, provide a helpful message
   asking the user to specify what's missing.

Current date for reference: CURRENT_DATE

Respond ONLY with valid JSON in this exact format:
{
  "tickers": ["AMZN"] or null,
  "period": "Q3-2025" or null,
  "needs_clarification": false,
  "clarification_message": null or "Please specify..."
}`

const (
	malformedResponseMessage = "I couldn't understand your query. Please specify the company ticker and time period."
	defaultClarification     = "Please specify the company ticker and fiscal period (e.g., AMZN, Q3-2025)."
)

var (
	periodRe     = regexp.MustCompile(`(?i)q([1-4])[-\s]?(\d{4})`)
	tickerRe     = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
	fencedJSONRe = regexp.MustCompile("(?is)```json\\s*(\\{.*?\\})\\s*```")
	braceJSONRe  = regexp.MustCompile(`(?s)\{[^{}]*\}`)
)

// QueryParser extracts {tickers, period} filters from a free-text
// question. One LLM call does the heavy lifting; regex heuristics fill
// in whatever the model misses, and anything still missing after that
// turns into a clarification request instead of an error.
type QueryParser struct {
	ai       AIService
	timeout  time.Duration
	denyList map[string]bool
	logger   *zap.Logger
	now      func() time.Time
}

func NewQueryParser(ai AIService, timeout time.Duration, denyList []string, logger *zap.Logger) *QueryParser {
	deny := make(map[string]bool, len(denyList))
	for _, w := range denyList {
		deny[strings.ToUpper(w)] = true
	}
	return &QueryParser{
		ai:       ai,
		timeout:  timeout,
		denyList: deny,
		logger:   logger,
		now:      time.Now,
	}
}

// llmExtraction is the JSON contract the model is instructed to return.
// Fields are pointers where absence matters.
type llmExtraction struct {
	Tickers              []string `json:"tickers"`
	Period               *string  `json:"period"`
	NeedsClarification   bool     `json:"needs_clarification"`
	ClarificationMessage *string  `json:"clarification_message"`
}

// Parse never returns an error: an unreachable or misbehaving model
// degrades into the fallback heuristics or a clarification request.
func (p *QueryParser) Parse(ctx context.Context, question string) types.ParsedQuery {
	now := p.now()
	prompt := strings.NewReplacer(
		"CURRENT_DATE", now.Format("January 02, 2006"),
		"CURRENT_QUARTER", currentQuarter(now),
	).Replace(extractionPrompt)

	var extracted llmExtraction
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	response, err := p.ai.Chat(callCtx, prompt, question)
	if err != nil {
		// Timeout and transport errors count as extraction failures:
		// carry on with heuristics only.
		p.logger.Debug("extraction call failed, using fallback", zap.Error(err))
	} else {
		jsonBlock := extractJSONBlock(response)
		if jsonBlock == "" {
			jsonBlock = response
		}
		if err := json.Unmarshal([]byte(jsonBlock), &extracted); err != nil {
			p.logger.Debug("malformed extraction response", zap.Error(err))
			return types.ParsedQuery{
				NeedsClarification: true,
				Message:            malformedResponseMessage,
			}
		}
	}

	result := types.ParsedQuery{
		NeedsClarification: extracted.NeedsClarification,
	}
	for _, t := range extracted.Tickers {
		result.Tickers = append(result.Tickers, strings.ToUpper(t))
	}
	if extracted.Period != nil {
		result.Period = p.resolveRelativePeriod(*extracted.Period, now)
	}
	if extracted.ClarificationMessage != nil {
		result.Message = *extracted.ClarificationMessage
	}

	// Fill gaps the model left with deterministic heuristics.
	if len(result.Tickers) == 0 || result.Period == "" {
		fallbackTickers, fallbackPeriod := p.fallbackParse(question)
		if len(result.Tickers) == 0 {
			result.Tickers = fallbackTickers
		}
		if result.Period == "" {
			result.Period = fallbackPeriod
		}
	}

	if len(result.Tickers) == 0 || result.Period == "" {
		result.NeedsClarification = true
		if result.Message == "" {
			result.Message = defaultClarification
		}
	}
	return result
}

// fallbackParse scans the question itself: 1-5 letter all-caps tokens
// become tickers (minus the deny-list, deduped in first-seen order) and
// the first Q#-YYYY shaped substring becomes the period. Only tokens
// the user actually typed in caps count; lowercase company mentions
// need the model.
func (p *QueryParser) fallbackParse(question string) ([]string, string) {
	var tickers []string
	seen := map[string]bool{}
	for _, symbol := range tickerRe.FindAllString(question, -1) {
		if p.denyList[symbol] || seen[symbol] {
			continue
		}
		seen[symbol] = true
		tickers = append(tickers, symbol)
	}

	period := ""
	if m := periodRe.FindStringSubmatch(question); m != nil {
		period = fmt.Sprintf("Q%s-%s", m[1], m[2])
	}
	return tickers, period
}

func (p *QueryParser) resolveRelativePeriod(period string, now time.Time) string {
	if period == "CURRENT_QUARTER" {
		return currentQuarter(now)
	}
	return period
}

// currentQuarter formats the caller's current fiscal quarter, computed
// as ceil(month/3).
func currentQuarter(now time.Time) string {
	quarter := (int(now.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d-%d", quarter, now.Year())
}

// extractJSONBlock pulls the first fenced JSON block if present, else
// the first brace-delimited object.
func extractJSONBlock(text string) string {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return braceJSONRe.FindString(text)
}
