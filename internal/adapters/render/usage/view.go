package usage

import (
	"fmt"
	"time"

	"github.com/bnema/aicms-cli/internal/adapters/render/headless"
	"github.com/bnema/aicms-cli/internal/application"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

type RenderOptions struct {
	Now time.Time
}

var headers = []string{"FEATURE", "ARTICLE", "TOKENS", "COST", "WHEN"}

func Render(records []domain.UsageRecord, opts RenderOptions) (string, error) {
	return headless.Render(func() string {
		return renderView(records, opts, newStyles())
	})
}

func renderView(records []domain.UsageRecord, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("AI Usage")}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render(application.EmptyUsageMessage))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			string(record.Feature),
			record.ArticleLabel(),
			humanize.Comma(record.TokensUsed),
			record.CostLabel(),
			when(record.CreatedAt, opts.Now),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		})

	totals := application.SummarizeUsage(records)
	lines = append(lines,
		t.Render(),
		s.totals.Render(fmt.Sprintf(
			"requests: %d  tokens: %s  cost: $%.4f",
			totals.Requests,
			humanize.Comma(totals.TokensUsed),
			totals.Cost,
		)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func when(at, now time.Time) string {
	if at.IsZero() {
		return "-"
	}
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}
	return humanize.RelTime(at, now, "ago", "from now")
}
