package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
)

const articlesPath = "articles/"

type ArticleRepository struct {
	gateway ports.Gateway
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

func NewArticleRepository(gateway ports.Gateway) *ArticleRepository {
	return &ArticleRepository{gateway: gateway}
}

func (r *ArticleRepository) GetByID(ctx context.Context, id domain.ArticleID) (domain.Article, error) {
	raw, err := r.gateway.Do(ctx, http.MethodGet, articlePath(id), nil)
	if err != nil {
		return domain.Article{}, err
	}

	return decodeArticle(raw)
}

func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	raw, err := r.gateway.Do(ctx, http.MethodGet, articlesPath, nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList[articleSchema](raw)
	if err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(entries))
	for _, entry := range entries {
		articles = append(articles, fromArticleSchema(entry))
	}

	return articles, nil
}

func (r *ArticleRepository) Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error) {
	if err := draft.Validate(); err != nil {
		return domain.Article{}, err
	}

	raw, err := r.gateway.Do(ctx, http.MethodPost, articlesPath, toDraftSchema(draft))
	if err != nil {
		return domain.Article{}, err
	}

	return decodeArticle(raw)
}

func (r *ArticleRepository) Update(ctx context.Context, id domain.ArticleID, draft domain.ArticleDraft) (domain.Article, error) {
	if err := draft.Validate(); err != nil {
		return domain.Article{}, err
	}

	raw, err := r.gateway.Do(ctx, http.MethodPut, articlePath(id), toDraftSchema(draft))
	if err != nil {
		return domain.Article{}, err
	}

	return decodeArticle(raw)
}

func (r *ArticleRepository) Delete(ctx context.Context, id domain.ArticleID) error {
	_, err := r.gateway.Do(ctx, http.MethodDelete, articlePath(id), nil)
	return err
}

func articlePath(id domain.ArticleID) string {
	return fmt.Sprintf("%s%d/", articlesPath, int64(id))
}

func decodeArticle(raw json.RawMessage) (domain.Article, error) {
	if len(raw) == 0 {
		return domain.Article{}, nil
	}

	var entry articleSchema
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.Article{}, fmt.Errorf("decode article: %w", err)
	}

	return fromArticleSchema(entry), nil
}

// decodeList accepts both a bare JSON array and a DRF paginated envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var list []T
	err := json.Unmarshal(raw, &list)
	if err == nil {
		return list, nil
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, err
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}

	return page.Results, nil
}
