package ports

import (
	"context"

	"github.com/bnema/aicms-cli/internal/domain"
)

type ArticleRepository interface {
	GetByID(ctx context.Context, id domain.ArticleID) (domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error)
	Update(ctx context.Context, id domain.ArticleID, draft domain.ArticleDraft) (domain.Article, error)
	Delete(ctx context.Context, id domain.ArticleID) error
}

type UsageRepository interface {
	List(ctx context.Context) ([]domain.UsageRecord, error)
}
