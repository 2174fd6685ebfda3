package application

import (
	"context"
	"fmt"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
	"golang.org/x/sync/errgroup"
)

type ArticleService struct {
	articles ports.ArticleRepository
	identity *IdentityResolver
}

func NewArticleService(articles ports.ArticleRepository, identity *IdentityResolver) *ArticleService {
	return &ArticleService{articles: articles, identity: identity}
}

// List returns every article with an editable flag for the ones owned by the
// current user. The list and the identity are fetched concurrently.
func (s *ArticleService) List(ctx context.Context) ([]ArticleListItem, *domain.Identity, error) {
	var (
		articles []domain.Article
		user     *domain.Identity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.articles.List(gctx)
		if err != nil {
			return fmt.Errorf("list articles: %w", err)
		}
		articles = list
		return nil
	})
	g.Go(func() error {
		user = s.identity.ResolveCurrentUser(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	items := make([]ArticleListItem, 0, len(articles))
	for _, article := range articles {
		items = append(items, ArticleListItem{Article: article, Editable: article.OwnedBy(user)})
	}

	return items, user, nil
}

func (s *ArticleService) Get(ctx context.Context, id domain.ArticleID) (domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return article, nil
}

func (s *ArticleService) Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error) {
	if err := draft.Validate(); err != nil {
		return domain.Article{}, err
	}

	article, err := s.articles.Create(ctx, draft)
	if err != nil {
		return domain.Article{}, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

// Edit loads the article, applies the command's changes and saves it.
func (s *ArticleService) Edit(ctx context.Context, cmd EditArticleCommand) (domain.Article, error) {
	current, err := s.articles.GetByID(ctx, cmd.ID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("load article %s: %w", cmd.ID, err)
	}

	draft := cmd.apply(current)
	if err := draft.Validate(); err != nil {
		return domain.Article{}, err
	}

	updated, err := s.articles.Update(ctx, cmd.ID, draft)
	if err != nil {
		return domain.Article{}, fmt.Errorf("update article %s: %w", cmd.ID, err)
	}
	return updated, nil
}

// Delete removes the article only when the confirmation is exactly
// domain.DeleteConfirmation.
func (s *ArticleService) Delete(ctx context.Context, cmd DeleteArticleCommand) error {
	if cmd.Confirmation != domain.DeleteConfirmation {
		return domain.ErrConfirmationMismatch
	}

	if err := s.articles.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("delete article %s: %w", cmd.ID, err)
	}
	return nil
}
