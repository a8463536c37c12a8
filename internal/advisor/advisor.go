package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"contas/internal/core"
	"contas/internal/ledger"
)

// Fallback is returned whenever the model is unreachable or its answer
// is unusable. The caller never sees the underlying failure.
const Fallback = "Não foi possível gerar a análise deste mês. Revise os gastos pendentes e a fatura do cartão manualmente."

type Advisor struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Advisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Advisor{client: client, model: model}, nil
}

// MonthlyAdvice produces a short spending analysis for one month. Any
// failure degrades to Fallback; advice is never worth an error page.
func (a *Advisor) MonthlyAdvice(ctx context.Context, summary ledger.MonthlySummary, txs []core.Transaction) string {
	prompt := buildPrompt(summary, txs)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Advice generation failed", "error", err)
		return Fallback
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		slog.WarnContext(ctx, "Advice generation returned empty response")
		return Fallback
	}
	return text
}

func buildPrompt(summary ledger.MonthlySummary, txs []core.Transaction) string {
	var b strings.Builder
	b.WriteString("Você é um consultor financeiro de uma casa com duas pessoas.\n")
	b.WriteString("Analise o mês abaixo e escreva no máximo três parágrafos curtos em português,\n")
	b.WriteString("apontando os maiores gastos, o que ainda está pendente e um conselho prático.\n")
	b.WriteString("Responda apenas com o texto do conselho, sem saudações.\n\n")

	fmt.Fprintf(&b, "Mês: %s\n", summary.Month.Format("2006-01"))
	fmt.Fprintf(&b, "Receita projetada: %.2f, realizada: %.2f\n", summary.IncomeProjected, summary.IncomeReal)
	fmt.Fprintf(&b, "Despesa projetada: %.2f, realizada: %.2f\n", summary.ExpenseProjected, summary.ExpenseReal)
	fmt.Fprintf(&b, "Saldo projetado: %.2f\n\n", summary.BalanceProjected)

	b.WriteString("Lançamentos do mês:\n")
	for _, t := range txs {
		fmt.Fprintf(&b, "- %s | %s | %.2f | %s | %s | %s\n",
			t.Date.String(), t.Description, t.Amount, t.Type, t.Status, t.User)
	}
	return b.String()
}
