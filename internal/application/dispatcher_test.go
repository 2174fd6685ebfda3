package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/aicms-cli/internal/adapters/gateway"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
	"github.com/bnema/aicms-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var bob = &domain.Identity{ID: 1, Username: "bob"}

func TestDispatcherAnonymousSummarizeSkipsNetworkAndSchedulesLoginRedirect(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	nav := mocks.NewMockNavigator(t)
	sched := &fakeScheduler{}
	d := NewDispatcher(gw, nav, WithScheduler(sched))

	result, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 7, Content: "text"})

	require.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Nil(t, result)
	assert.Equal(t, LoginRequiredMessage, d.Message())
	assert.Empty(t, d.InFlight())
	gw.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	pending := sched.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, DefaultRedirectDelay, pending[0].delay)
	nav.AssertNotCalled(t, "Navigate", mock.Anything)

	nav.EXPECT().Navigate("/login").Once()
	sched.fire()
}

func TestDispatcherAnonymousEventuallyNavigatesWithSystemScheduler(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	nav := mocks.NewMockNavigator(t)
	var navigated atomic.Bool
	nav.EXPECT().Navigate(LoginPath).Run(func(string) { navigated.Store(true) }).Once()

	d := NewDispatcher(gw, nav, WithRedirectDelay(5*time.Millisecond))
	_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSentiment, ArticleID: 1})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	assert.Eventually(t, navigated.Load, time.Second, 5*time.Millisecond)
}

func TestDispatcherRepeatedAnonymousClicksKeepOneRedirect(t *testing.T) {
	nav := mocks.NewMockNavigator(t)
	sched := &fakeScheduler{}
	d := NewDispatcher(mocks.NewMockGateway(t), nav, WithScheduler(sched))

	for range 3 {
		_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 7})
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	}

	require.Len(t, sched.pending(), 1)
	nav.EXPECT().Navigate(LoginPath).Once()
	sched.fire()
}

func TestDispatcherReleaseCancelsPendingRedirect(t *testing.T) {
	nav := mocks.NewMockNavigator(t)
	sched := &fakeScheduler{}
	d := NewDispatcher(mocks.NewMockGateway(t), nav, WithScheduler(sched))

	_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 7})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	d.Release()
	sched.fire()

	assert.Empty(t, sched.pending())
	nav.AssertNotCalled(t, "Navigate", mock.Anything)
}

func TestDispatcherRejectsSecondFeatureWhileFirstIsInFlight(t *testing.T) {
	var requests atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		switch r.URL.Path {
		case "/api/articles/7/summarize/":
			<-release
			_, _ = w.Write([]byte(`{"summary":"short"}`))
		case "/api/articles/7/sentiment/":
			_, _ = w.Write([]byte(`{"sentiment":"Positive overall"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	sessions := mocks.NewMockSessionStore(t)
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{AccessToken: "tok"}, nil)
	client, err := gateway.NewClient(server.URL+"/api/", sessions)
	require.NoError(t, err)

	d := NewDispatcher(client, mocks.NewMockNavigator(t))
	d.SetIdentity(bob)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 7, Content: "c"})
	}()

	require.Eventually(t, func() bool { return requests.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, domain.FeatureSummarize, d.InFlight())
	assert.True(t, d.Busy(domain.FeatureSummarize))
	assert.False(t, d.Busy(domain.FeatureSentiment))

	_, err = d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSentiment, ArticleID: 7, Content: "c"})
	require.ErrorIs(t, err, domain.ErrFeatureBusy)
	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, domain.FeatureSummarize, d.InFlight())

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Empty(t, d.InFlight())

	result, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSentiment, ArticleID: 7, Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentResult{Sentiment: "Positive overall"}, result)
	assert.Equal(t, int32(2), requests.Load())

	results := d.Results()
	assert.Equal(t, "short", results.Summary)
	assert.Equal(t, "Positive overall", results.Sentiment)
	assert.Equal(t, domain.SentimentPositive, results.SentimentTone())
}

func TestDispatcherSendsFeatureRequests(t *testing.T) {
	testCases := []struct {
		name     string
		req      domain.FeatureRequest
		wantPath string
		wantBody any
		response string
		check    func(t *testing.T, results domain.ResultAggregate, result domain.FeatureResult)
	}{
		{
			name:     "summarize",
			req:      domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 7, Content: "body"},
			wantPath: "articles/7/summarize/",
			wantBody: map[string]string{"content": "body"},
			response: `{"summary":"S","estimated_cost":0.001}`,
			check: func(t *testing.T, results domain.ResultAggregate, _ domain.FeatureResult) {
				assert.Equal(t, "S", results.Summary)
			},
		},
		{
			name:     "tags without body",
			req:      domain.FeatureRequest{Feature: domain.FeatureTags, ArticleID: 3, Content: "ignored"},
			wantPath: "articles/3/tags/",
			wantBody: nil,
			response: `{"tags":["go","ai"]}`,
			check: func(t *testing.T, results domain.ResultAggregate, _ domain.FeatureResult) {
				assert.Equal(t, []string{"go", "ai"}, results.Tags)
			},
		},
		{
			name:     "seo without body",
			req:      domain.FeatureRequest{Feature: domain.FeatureSEO, ArticleID: 3},
			wantPath: "articles/3/seo/",
			wantBody: nil,
			response: `{"seo_suggestions":"Use a shorter title"}`,
			check: func(t *testing.T, results domain.ResultAggregate, _ domain.FeatureResult) {
				assert.Equal(t, "Use a shorter title", results.SEO)
			},
		},
		{
			name:     "missing summary defaults to empty",
			req:      domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 7},
			wantPath: "articles/7/summarize/",
			wantBody: map[string]string{"content": ""},
			response: `{}`,
			check: func(t *testing.T, results domain.ResultAggregate, result domain.FeatureResult) {
				assert.Equal(t, domain.SummaryResult{}, result)
				assert.True(t, results.Empty())
			},
		},
		{
			name:     "generate is returned but never merged",
			req:      domain.FeatureRequest{Feature: domain.FeatureGenerate, Topic: "  go  "},
			wantPath: "articles/generate/",
			wantBody: map[string]string{"topic": "go"},
			response: `{"topic":"go","content":"Draft","tags":["a"],"tokens_used":12,"estimated_cost":"0.0100"}`,
			check: func(t *testing.T, results domain.ResultAggregate, result domain.FeatureResult) {
				assert.True(t, results.Empty())
				assert.Equal(t, domain.GeneratedContent{Topic: "go", Content: "Draft", Tags: []string{"a"}, TokensUsed: 12, EstimatedCost: 0.01}, result)
			},
		},
		{
			name:     "unknown feature posts content and is ignored",
			req:      domain.FeatureRequest{Feature: "translate", ArticleID: 3, Content: "hola"},
			wantPath: "articles/3/translate/",
			wantBody: map[string]string{"content": "hola"},
			response: `{"translation":"hello"}`,
			check: func(t *testing.T, results domain.ResultAggregate, result domain.FeatureResult) {
				assert.Nil(t, result)
				assert.True(t, results.Empty())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := mocks.NewMockGateway(t)
			gw.EXPECT().Do(mockAnyContext(), http.MethodPost, tc.wantPath, tc.wantBody).Return(json.RawMessage(tc.response), nil).Once()

			d := NewDispatcher(gw, mocks.NewMockNavigator(t))
			d.SetIdentity(bob)

			result, err := d.Invoke(context.Background(), tc.req)
			require.NoError(t, err)
			assert.Empty(t, d.InFlight())
			assert.Empty(t, d.Message())
			tc.check(t, d.Results(), result)
		})
	}
}

func TestDispatcherLastWriteWinsPerField(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/1/summarize/", mock.Anything).Return(json.RawMessage(`{"summary":"first"}`), nil).Once()
	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/1/tags/", nil).Return(json.RawMessage(`{"tags":"x, y"}`), nil).Once()
	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/1/summarize/", mock.Anything).Return(json.RawMessage(`{"summary":"second"}`), nil).Once()

	d := NewDispatcher(gw, mocks.NewMockNavigator(t))
	d.SetIdentity(bob)

	for _, feature := range []domain.Feature{domain.FeatureSummarize, domain.FeatureTags, domain.FeatureSummarize} {
		_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: feature, ArticleID: 1})
		require.NoError(t, err)
	}

	results := d.Results()
	assert.Equal(t, "second", results.Summary)
	assert.Equal(t, []string{"x", "y"}, results.Tags)
	assert.Empty(t, results.Sentiment)
}

func TestDispatcherClearsMarkerAndClassifiesFailures(t *testing.T) {
	testCases := []struct {
		name        string
		feature     domain.Feature
		err         error
		wantMessage string
	}{
		{name: "server message", feature: domain.FeatureSummarize, err: &domain.ServerError{StatusCode: 400, Message: "Article content is empty"}, wantMessage: "Article content is empty"},
		{name: "server without message", feature: domain.FeatureSentiment, err: &domain.ServerError{StatusCode: 502}, wantMessage: ServerErrorMessage},
		{name: "transport", feature: domain.FeatureSummarize, err: &domain.TransportError{Method: "POST", Path: "x", Err: errors.New("refused")}, wantMessage: NetworkErrorMessage},
		{name: "generate fallback", feature: domain.FeatureGenerate, err: &domain.ServerError{StatusCode: 500}, wantMessage: GenerateFailedMessage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := mocks.NewMockGateway(t)
			gw.EXPECT().Do(mockAnyContext(), http.MethodPost, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			d := NewDispatcher(gw, mocks.NewMockNavigator(t))
			d.SetIdentity(bob)

			_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: tc.feature, ArticleID: 2, Topic: "t"})
			require.ErrorIs(t, err, tc.err)
			assert.Empty(t, d.InFlight())
			assert.Equal(t, tc.wantMessage, d.Message())
			assert.True(t, d.Results().Empty())
		})
	}
}

func TestDispatcherClearsMarkerOnMalformedResponse(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/2/summarize/", mock.Anything).Return(json.RawMessage(`[`), nil).Once()

	d := NewDispatcher(gw, mocks.NewMockNavigator(t))
	d.SetIdentity(bob)

	_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 2})
	require.Error(t, err)
	assert.Empty(t, d.InFlight())
	assert.Equal(t, ServerErrorMessage, d.Message())
}

func TestDispatcherValidationFailsWithoutRequest(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	d := NewDispatcher(gw, mocks.NewMockNavigator(t))
	d.SetIdentity(bob)

	_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureGenerate, Topic: "   "})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Enter a topic", d.Message())
	assert.Empty(t, d.InFlight())

	_, err = d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize})
	require.ErrorIs(t, err, domain.ErrValidation)
	gw.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcherDiscardsResultsAfterRelease(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	d := NewDispatcher(gw, mocks.NewMockNavigator(t))
	d.SetIdentity(bob)

	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/4/summarize/", mock.Anything).
		RunAndReturn(func(context.Context, string, string, any) (json.RawMessage, error) {
			d.Release()
			return json.RawMessage(`{"summary":"late"}`), nil
		}).Once()

	_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 4})
	require.ErrorIs(t, err, domain.ErrViewReleased)
	assert.Empty(t, d.InFlight())
	assert.True(t, d.Results().Empty())

	_, err = d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureSummarize, ArticleID: 4})
	require.ErrorIs(t, err, domain.ErrViewReleased)
}

func TestDispatcherResultsAreCopies(t *testing.T) {
	gw := mocks.NewMockGateway(t)
	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/1/tags/", nil).Return(json.RawMessage(`{"tags":["a"]}`), nil).Once()

	d := NewDispatcher(gw, mocks.NewMockNavigator(t))
	d.SetIdentity(bob)
	_, err := d.Invoke(context.Background(), domain.FeatureRequest{Feature: domain.FeatureTags, ArticleID: 1})
	require.NoError(t, err)

	results := d.Results()
	results.Tags[0] = "mutated"
	assert.Equal(t, []string{"a"}, d.Results().Tags)
}

var _ ports.Scheduler = (*fakeScheduler)(nil)
