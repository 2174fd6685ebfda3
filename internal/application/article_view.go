package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
	"golang.org/x/sync/errgroup"
)

// ArticleView is the detail view of one article. The article fetch and the
// identity lookup run concurrently and complete in either order.
type ArticleView struct {
	id         domain.ArticleID
	articles   ports.ArticleRepository
	identity   *IdentityResolver
	dispatcher *Dispatcher

	mu      sync.Mutex
	article *domain.Article
	user    *domain.Identity
}

func NewArticleView(id domain.ArticleID, articles ports.ArticleRepository, identity *IdentityResolver, dispatcher *Dispatcher) *ArticleView {
	return &ArticleView{
		id:         id,
		articles:   articles,
		identity:   identity,
		dispatcher: dispatcher,
	}
}

// Load starts both fetches and returns a channel that yields once both have
// finished. It carries the article fetch error, which is also reported
// through the view message. Identity failures only leave the view anonymous.
func (v *ArticleView) Load(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	var g errgroup.Group
	g.Go(func() error {
		article, err := v.articles.GetByID(ctx, v.id)
		if err != nil {
			v.dispatcher.SetMessage(UserMessage(err, ArticleLoadMessage))
			return fmt.Errorf("load article %d: %w", v.id, err)
		}
		v.mu.Lock()
		v.article = &article
		v.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		user := v.identity.ResolveCurrentUser(ctx)
		v.mu.Lock()
		v.user = user
		v.mu.Unlock()
		v.dispatcher.SetIdentity(user)
		return nil
	})

	go func() {
		done <- g.Wait()
		close(done)
	}()

	return done
}

func (v *ArticleView) Snapshot() ArticleSnapshot {
	v.mu.Lock()
	var article *domain.Article
	if v.article != nil {
		copied := *v.article
		article = &copied
	}
	user := v.user
	v.mu.Unlock()

	return ArticleSnapshot{
		Article:  article,
		Identity: user,
		Results:  v.dispatcher.Results(),
		InFlight: v.dispatcher.InFlight(),
		Message:  v.dispatcher.Message(),
	}
}

// Invoke runs feature on the loaded article's content. The content is empty
// when the article has not loaded yet.
func (v *ArticleView) Invoke(ctx context.Context, feature domain.Feature) (domain.FeatureResult, error) {
	v.mu.Lock()
	content := ""
	if v.article != nil {
		content = v.article.Content
	}
	v.mu.Unlock()

	return v.dispatcher.Invoke(ctx, domain.FeatureRequest{
		Feature:   feature,
		ArticleID: v.id,
		Content:   content,
	})
}

func (v *ArticleView) Dispatcher() *Dispatcher {
	return v.dispatcher
}

// Close releases the view. In-flight results arriving afterwards are dropped.
func (v *ArticleView) Close() {
	v.dispatcher.Release()
}
