package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/aicms-cli/internal/domain"
	portmocks "github.com/bnema/aicms-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientAttachesBearerReadFreshOnEveryCall(t *testing.T) {
	t.Parallel()

	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	sessions := portmocks.NewMockSessionStore(t)
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{AccessToken: "first"}, nil).Once()
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{AccessToken: "second"}, nil).Once()
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{}, nil).Once()

	client, err := NewClient(server.URL+"/api/", sessions)
	require.NoError(t, err)

	for range 3 {
		_, err := client.Do(context.Background(), http.MethodGet, "auth/me/", nil)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"Bearer first", "Bearer second", ""}, seen)
}

func TestClientProceedsUnauthenticatedWhenSessionReadFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	sessions := portmocks.NewMockSessionStore(t)
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{}, errors.New("pass locked")).Once()

	client, err := NewClient(server.URL, sessions)
	require.NoError(t, err)

	raw, err := client.Do(context.Background(), http.MethodDelete, "articles/3/", nil)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestClientResolvesPathAndSendsJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/articles/7/summarize/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Contains(t, r.Header.Get("User-Agent"), "aicms/")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"content":"hello"}`, string(body))

		_, _ = w.Write([]byte(`{"summary":"short"}`))
	}))
	t.Cleanup(server.Close)

	sessions := portmocks.NewMockSessionStore(t)
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{AccessToken: "tok"}, nil)

	client, err := NewClient(server.URL+"/api", sessions)
	require.NoError(t, err)

	raw, err := client.Do(context.Background(), http.MethodPost, "/articles/7/summarize/", map[string]string{"content": "hello"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"short"}`, string(raw))
}

func TestClientOmitsBodyWhenNil(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		_, _ = w.Write([]byte(`{"tags":["go"]}`))
	}))
	t.Cleanup(server.Close)

	sessions := portmocks.NewMockSessionStore(t)
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{AccessToken: "tok"}, nil)

	client, err := NewClient(server.URL, sessions)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodPost, "articles/1/tags/", nil)
	require.NoError(t, err)
}

func TestClientMapsServerErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantFields  map[string][]string
	}{
		{name: "error key", status: http.StatusInternalServerError, body: `{"error":"AI quota exceeded"}`, wantMessage: "AI quota exceeded"},
		{name: "detail key", status: http.StatusUnauthorized, body: `{"detail":"Given token not valid"}`, wantMessage: "Given token not valid"},
		{name: "error wins over detail", status: http.StatusBadRequest, body: `{"detail":"d","error":"e"}`, wantMessage: "e"},
		{name: "field errors", status: http.StatusBadRequest, body: `{"username":["already taken"]}`, wantFields: map[string][]string{"username": {"already taken"}}},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			sessions := portmocks.NewMockSessionStore(t)
			sessions.EXPECT().Get(mock.Anything).Return(domain.Session{}, nil)

			client, err := NewClient(server.URL, sessions)
			require.NoError(t, err)

			_, err = client.Do(context.Background(), http.MethodGet, "articles/", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrServer)
			assert.NotErrorIs(t, err, domain.ErrTransport)

			var serverErr *domain.ServerError
			require.ErrorAs(t, err, &serverErr)
			assert.Equal(t, tc.status, serverErr.StatusCode)
			assert.Equal(t, tc.wantMessage, serverErr.Message)
			assert.Equal(t, tc.wantFields, serverErr.Fields)
		})
	}
}

func TestClientMapsUnreachableBackendToTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	sessions := portmocks.NewMockSessionStore(t)
	sessions.EXPECT().Get(mock.Anything).Return(domain.Session{}, nil)

	client, err := NewClient(baseURL, sessions)
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "articles/", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrServer)
}

func TestClientRejectsAbsolutePaths(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://127.0.0.1:8000/api/", portmocks.NewMockSessionStore(t))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "https://evil.example/x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be relative")
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewClient("not a url", portmocks.NewMockSessionStore(t))
	require.Error(t, err)

	_, err = NewClient("http://127.0.0.1:8000/api/", nil)
	require.Error(t, err)

	client, err := NewClient("http://127.0.0.1:8000/api", portmocks.NewMockSessionStore(t))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/api/", client.BaseURL())
}

func TestNewServerErrorIgnoresNonStringDetail(t *testing.T) {
	t.Parallel()

	err := newServerError(http.StatusBadRequest, json.RawMessage(`{"detail":{"code":1},"email":"invalid"}`))
	assert.Empty(t, err.Message)
	assert.Equal(t, map[string][]string{"email": {"invalid"}}, err.Fields)
}
