package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	last  []Message
	reply string
	err   error
}

func (p *recordingProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	_ = ctx
	p.last = append([]Message(nil), messages...)
	return p.reply, p.err
}

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	reg := NewRegistry()
	prov := &recordingProvider{}
	reg.Register(" Ollama ", func(ctx context.Context, model string) (Provider, error) {
		return prov, nil
	})

	got, err := reg.Get(context.Background(), "OLLAMA", "m")
	require.NoError(t, err)
	assert.Same(t, prov, got)
	assert.Equal(t, []string{"ollama"}, reg.Names())

	_, err = reg.Get(context.Background(), "nope", "")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestSupportResponder_BuildsPromptAndTrims(t *testing.T) {
	prov := &recordingProvider{reply: "  You're not alone.  "}
	r := NewSupportResponder(prov, 0)

	out, err := r.Reply(context.Background(), "what's the weather?", "general")
	require.NoError(t, err)
	assert.Equal(t, "You're not alone.", out)
	require.Len(t, prov.last, 3)
	assert.Equal(t, "system", prov.last[0].Role)
	assert.Equal(t, "user", prov.last[2].Role)
	assert.Equal(t, "what's the weather?", prov.last[2].Content)
}

func TestSupportResponder_EmptyReplyIsError(t *testing.T) {
	_, err := NewSupportResponder(&recordingProvider{reply: " "}, 0).Reply(context.Background(), "x", "general")
	assert.ErrorIs(t, err, ErrEmptyReply)

	boom := errors.New("boom")
	_, err = NewSupportResponder(&recordingProvider{err: boom}, 0).Reply(context.Background(), "x", "general")
	assert.ErrorIs(t, err, boom)
}

func TestOllamaProvider_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req ollamaChatReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "llama3:latest", req.Model)
		_ = json.NewEncoder(w).Encode(ollamaChatResp{Message: ollamaMsg{Role: "assistant", Content: "hi "}})
	}))
	defer srv.Close()

	out, err := NewOllamaProvider(srv.URL, "").Chat(context.Background(), []Message{{Role: "user", Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestOpenRouterProvider_ChatErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	_, err := NewOpenRouterProvider(srv.URL, "", "m", "", "").Chat(context.Background(), nil)
	assert.EqualError(t, err, "openrouter: api key is required")

	_, err = NewOpenRouterProvider(srv.URL, "k", "m", "", "").Chat(context.Background(), nil)
	assert.EqualError(t, err, "openrouter: rate limited")
}
