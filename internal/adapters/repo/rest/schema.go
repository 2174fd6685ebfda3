package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/aicms-cli/internal/domain"
)

type articleSchema struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Summary   string `json:"summary,omitempty"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type draftSchema struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type usageSchema struct {
	ID            int64         `json:"id"`
	Feature       string        `json:"feature"`
	ArticleTitle  string        `json:"article_title"`
	Article       articleRef    `json:"article"`
	TokensUsed    int64         `json:"tokens_used"`
	EstimatedCost flexibleFloat `json:"estimated_cost"`
	CreatedAt     string        `json:"created_at"`
}

// flexibleFloat accepts DRF decimals, which are serialized as strings, as
// well as plain JSON numbers.
type flexibleFloat float64

func (f *flexibleFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("parse decimal %q: %w", raw, err)
	}
	*f = flexibleFloat(value)
	return nil
}

// articleRef is the usage record's article field: a title string, a primary
// key, or a nested article. A key renders as "#<id>".
type articleRef string

func (r *articleRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = articleRef(s)
	case '{':
		var nested struct {
			ID    json.Number `json:"id"`
			Title string      `json:"title"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		switch {
		case nested.Title != "":
			*r = articleRef(nested.Title)
		case nested.ID != "":
			*r = articleRef("#" + nested.ID.String())
		default:
			*r = ""
		}
	default:
		var id json.Number
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("parse article reference %s: %w", data, err)
		}
		*r = articleRef("#" + id.String())
	}
	return nil
}

func toDraftSchema(draft domain.ArticleDraft) draftSchema {
	return draftSchema{
		Title:   strings.TrimSpace(draft.Title),
		Content: draft.Content,
	}
}

func fromArticleSchema(article articleSchema) domain.Article {
	return domain.Article{
		ID:        domain.ArticleID(article.ID),
		Title:     article.Title,
		Author:    article.Author,
		Content:   article.Content,
		Summary:   article.Summary,
		CreatedAt: parseTime(article.CreatedAt),
		UpdatedAt: parseTime(article.UpdatedAt),
	}
}

func fromUsageSchema(record usageSchema) domain.UsageRecord {
	title := record.ArticleTitle
	if title == "" {
		title = string(record.Article)
	}

	return domain.UsageRecord{
		ID:            record.ID,
		Feature:       domain.Feature(record.Feature),
		ArticleTitle:  title,
		TokensUsed:    record.TokensUsed,
		EstimatedCost: float64(record.EstimatedCost),
		CreatedAt:     parseTime(record.CreatedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}
