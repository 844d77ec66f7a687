package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
)

func testAPI(endpoint string) model.APIConfig {
	return model.APIConfig{
		Enabled:     true,
		Endpoint:    endpoint,
		Model:       "gpt-3.5-turbo",
		APIKey:      "test-key",
		Temperature: 0.7,
		MaxTokens:   100,
		Timeout:     2 * time.Second,
	}
}

func TestChatClientSendsRequestAndParsesContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Equal(t, 100, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.True(t, strings.HasSuffix(req.Messages[1].Content, "Use moderate vocabulary."))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Type this text.  "}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient(testAPI(srv.URL), srv.Client(), rand.New(rand.NewSource(1)))
	text, err := c.Prompt(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Type this text.", text)
}

func TestChatClientFailures(t *testing.T) {
	status := http.StatusInternalServerError
	body := `{}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()
	rnd := rand.New(rand.NewSource(1))

	_, err := NewChatClient(testAPI(srv.URL), srv.Client(), rnd).Complete(context.Background(), "x")
	assert.ErrorContains(t, err, "status 500")

	status, body = http.StatusOK, `{"choices":[]}`
	_, err = NewChatClient(testAPI(srv.URL), srv.Client(), rnd).Complete(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrEmptyCompletion))

	cfg := testAPI(srv.URL)
	cfg.APIKey = PlaceholderAPIKey
	_, err = NewChatClient(cfg, srv.Client(), rnd).Complete(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNoAPIKey))
}

func TestDifficultyModifier(t *testing.T) {
	assert.Equal(t, "Keep it simple with basic vocabulary.", DifficultyModifier(3))
	assert.Equal(t, "Use moderate vocabulary.", DifficultyModifier(7))
	assert.Equal(t, "Use advanced vocabulary and complex sentence structures.", DifficultyModifier(8))
}

type failingSource struct{ calls int }

func (f *failingSource) Name() string { return "broken" }

func (f *failingSource) Prompt(context.Context, int) (string, error) {
	f.calls++
	return "", errors.New("boom")
}

func TestProviderFallsBackToStatic(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	broken := &failingSource{}
	p := NewProvider(logging.Discard(), NewStatic(rnd, []string{"only prompt"}), broken)
	assert.Equal(t, "only prompt", p.Next(context.Background(), 1))
	assert.Equal(t, 1, broken.calls)
}

func TestBuildDynamicWithoutKeyFallsBack(t *testing.T) {
	api := testAPI("http://127.0.0.1:1")
	api.APIKey = ""
	p := Build(model.Config{Source: SourceDynamic}, api, nil, nil, rand.New(rand.NewSource(3)), logging.Discard())
	assert.Contains(t, Fallbacks, p.Next(context.Background(), 1))
}

func TestGeneratorWordsAndWeighting(t *testing.T) {
	cfg := model.Config{Words: 30, FocusWeak: true, WeakFactor: 50}
	weak := func() map[rune]struct{} { return map[rune]struct{}{'z': {}} }
	g := NewGenerator(rand.New(rand.NewSource(42)), []string{"zzz", "abc"}, cfg, weak)

	words := g.Words()
	require.Len(t, words, 30)
	zCount := 0
	for _, w := range words {
		if w == "zzz" {
			zCount++
		}
	}
	assert.Greater(t, zCount, 20)

	text, err := g.Prompt(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(text), 30)
}

func TestGeneratorCapsAndPunct(t *testing.T) {
	cfg := model.Config{Words: 10, CapsPct: 1, PunctPct: 1, PunctSet: "!"}
	g := NewGenerator(rand.New(rand.NewSource(1)), []string{"word"}, cfg, nil)
	for _, w := range g.Words() {
		assert.Equal(t, "Word!", w)
	}
}
