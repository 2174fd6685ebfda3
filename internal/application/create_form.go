package application

import (
	"context"
	"strings"
	"sync"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
)

// CreateForm is the article creation form. Generate fills the content field
// from the AI; Submit persists the article.
type CreateForm struct {
	articles   ports.ArticleRepository
	identity   *IdentityResolver
	dispatcher *Dispatcher

	mu      sync.Mutex
	title   string
	content string
	topic   string
	tags    []string
}

func NewCreateForm(articles ports.ArticleRepository, identity *IdentityResolver, dispatcher *Dispatcher) *CreateForm {
	return &CreateForm{articles: articles, identity: identity, dispatcher: dispatcher}
}

// Load resolves the caller so Generate can apply the login gate.
func (f *CreateForm) Load(ctx context.Context) *domain.Identity {
	user := f.identity.ResolveCurrentUser(ctx)
	f.dispatcher.SetIdentity(user)
	return user
}

func (f *CreateForm) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

func (f *CreateForm) SetContent(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = content
}

func (f *CreateForm) SetTopic(topic string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topic = topic
}

func (f *CreateForm) Content() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content
}

func (f *CreateForm) Tags() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tags...)
}

func (f *CreateForm) Message() string {
	return f.dispatcher.Message()
}

// Generate asks the AI for content on the form's topic and replaces the
// content field with the answer. The title is left alone.
func (f *CreateForm) Generate(ctx context.Context) (domain.GeneratedContent, error) {
	f.mu.Lock()
	topic := strings.TrimSpace(f.topic)
	f.mu.Unlock()

	result, err := f.dispatcher.Invoke(ctx, domain.FeatureRequest{
		Feature: domain.FeatureGenerate,
		Topic:   topic,
	})
	if err != nil {
		return domain.GeneratedContent{}, err
	}

	generated, ok := result.(domain.GeneratedContent)
	if !ok {
		return domain.GeneratedContent{}, nil
	}

	f.mu.Lock()
	f.content = generated.Content
	f.tags = append([]string(nil), generated.Tags...)
	f.mu.Unlock()

	return generated, nil
}

func (f *CreateForm) Submit(ctx context.Context) (domain.Article, error) {
	f.mu.Lock()
	draft := domain.ArticleDraft{Title: f.title, Content: f.content}
	f.mu.Unlock()

	if err := draft.Validate(); err != nil {
		f.dispatcher.SetMessage(UserMessage(err, ""))
		return domain.Article{}, err
	}

	article, err := f.articles.Create(ctx, draft)
	if err != nil {
		f.dispatcher.SetMessage(UserMessage(err, CreateFailedMessage))
		return domain.Article{}, err
	}

	return article, nil
}

func (f *CreateForm) Close() {
	f.dispatcher.Release()
}
