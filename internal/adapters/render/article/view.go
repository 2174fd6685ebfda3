package article

import (
	"fmt"
	"strings"

	"github.com/bnema/aicms-cli/internal/adapters/render/headless"
	"github.com/bnema/aicms-cli/internal/adapters/render/markdown"
	"github.com/bnema/aicms-cli/internal/application"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

type RenderOptions struct {
	Width int
	// MarkdownStyle is a glamour style name; empty picks one from the
	// environment.
	MarkdownStyle string
}

func (o RenderOptions) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

// RenderDetail draws one article with whichever AI results are populated.
func RenderDetail(snap application.ArticleSnapshot, opts RenderOptions) (string, error) {
	return headless.Render(func() string {
		return renderDetail(snap, opts, newStyles())
	})
}

func RenderList(items []application.ArticleListItem, opts RenderOptions) (string, error) {
	return headless.Render(func() string {
		return renderList(items, opts, newStyles())
	})
}

func renderDetail(snap application.ArticleSnapshot, opts RenderOptions, s styles) string {
	var lines []string
	if snap.Message != "" {
		lines = append(lines, s.message.Render(snap.Message))
	}
	if snap.Article == nil {
		if len(lines) == 0 {
			lines = append(lines, s.empty.Render("Article not loaded."))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	article := snap.Article
	lines = append(lines,
		s.title.Render(article.Title),
		s.byline.Render("By "+article.Author),
	)
	if content := markdown.Render(article.Content, opts.width(), opts.MarkdownStyle); content != "" {
		lines = append(lines, s.section.Render(content))
	}

	if snap.InFlight != "" {
		lines = append(lines, s.section.Render(s.pending.Render(fmt.Sprintf("%s: Processing...", snap.InFlight))))
	}

	lines = append(lines, resultLines(snap.Results, opts, s)...)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// resultLines renders only the populated fields of the aggregate.
func resultLines(results domain.ResultAggregate, opts RenderOptions, s styles) []string {
	var lines []string

	if results.Summary != "" {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.heading.Render("Summary:"),
			markdown.Render(results.Summary, opts.width(), opts.MarkdownStyle),
		)))
	}

	if results.Sentiment != "" {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.heading.Render("Sentiment:"),
			toneStyle(results.SentimentTone(), s).Render(results.Sentiment),
		)))
	}

	if len(results.Tags) > 0 {
		tags := make([]string, 0, len(results.Tags))
		for _, tag := range results.Tags {
			tags = append(tags, s.tag.Render("#"+strings.TrimPrefix(tag, "#")))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.heading.Render("Tags:"),
			strings.Join(tags, " "),
		)))
	}

	if results.SEO != "" {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.heading.Render("SEO suggestions:"),
			markdown.Render(results.SEO, opts.width(), opts.MarkdownStyle),
		)))
	}

	return lines
}

func toneStyle(tone domain.SentimentTone, s styles) lipgloss.Style {
	switch tone {
	case domain.SentimentPositive:
		return s.positive
	case domain.SentimentNegative:
		return s.negative
	default:
		return s.mixed
	}
}

func renderList(items []application.ArticleListItem, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Articles"),
		s.byline.Render(fmt.Sprintf("articles: %d", len(items))),
	}

	if len(items) == 0 {
		lines = append(lines, s.empty.Render("No articles yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	excerptStyle := s.excerpt.Width(opts.width())
	for _, item := range items {
		header := lipgloss.JoinHorizontal(lipgloss.Top,
			s.listID.Render(fmt.Sprintf("#%d ", item.Article.ID)),
			s.listTitle.Render(item.Article.Title),
		)
		meta := "By " + item.Article.Author
		if item.Editable {
			meta += " " + s.owned.Render("[edit] [delete]")
		}

		entry := []string{header, s.byline.Render(meta)}
		if excerpt := item.Article.Excerpt(); excerpt != "" {
			entry = append(entry, excerptStyle.Render(excerpt))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, entry...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
