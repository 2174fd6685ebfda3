package application

import "github.com/bnema/aicms-cli/internal/domain"

// EditArticleCommand carries the fields to change. Nil fields keep the
// stored value.
type EditArticleCommand struct {
	ID      domain.ArticleID
	Title   *string
	Content *string
}

func (c EditArticleCommand) apply(article domain.Article) domain.ArticleDraft {
	draft := domain.ArticleDraft{Title: article.Title, Content: article.Content}
	if c.Title != nil {
		draft.Title = *c.Title
	}
	if c.Content != nil {
		draft.Content = *c.Content
	}
	return draft
}

type DeleteArticleCommand struct {
	ID           domain.ArticleID
	Confirmation string
}
