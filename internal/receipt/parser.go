package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"contas/internal/core"
)

// Guess is the pre-filled draft extracted from a receipt photo. It is
// only a suggestion for the entry form; nothing is committed from it.
type Guess struct {
	Description   string             `json:"description"`
	Amount        float64            `json:"amount"`
	Date          core.Date          `json:"date"`
	PaymentMethod core.PaymentMethod `json:"paymentMethod"`
	LastFour      string             `json:"lastFourDigits,omitempty"`
	CardID        string             `json:"cardId,omitempty"`
	CategoryID    string             `json:"categoryId,omitempty"`
}

type Parser struct {
	client *genai.Client
	model  string
}

func NewParser(ctx context.Context, apiKey, model string) (*Parser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Parser{client: client, model: model}, nil
}

const parsePrompt = "You are a receipt parser for a household expense tracker.\n\n" +
	"Task:\n" +
	"- Read the attached receipt photo.\n" +
	"- Output STRICT JSON only (no comments, no extra text).\n" +
	"- Output a single JSON object.\n\n" +
	"The object must have these fields:\n" +
	"- \"description\": string (merchant name or purchase summary)\n" +
	"- \"amount\": number (total paid, always positive)\n" +
	"- \"date\": string, ISO format \"YYYY-MM-DD\", or null if unreadable\n" +
	"- \"paymentMethod\": \"CASH_DEBIT\" or \"CREDIT_CARD\"\n" +
	"- \"lastFourDigits\": string with the card's last four digits, or null\n\n" +
	"Return ONLY valid raw JSON.\n" +
	"Do NOT wrap the response in code fences.\n" +
	"Output must begin with \"{\" and end with \"}\".\n"

// Parse extracts a draft transaction from a receipt image.
func (p *Parser) Parse(ctx context.Context, image []byte, mimeType string) (Guess, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: parsePrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return Guess{}, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return Guess{}, fmt.Errorf("empty response from model")
	}

	var guess Guess
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &guess); err != nil {
		return Guess{}, fmt.Errorf("unmarshal receipt JSON: %w", err)
	}
	if !guess.PaymentMethod.Valid() {
		guess.PaymentMethod = core.CashDebit
	}
	return guess, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
