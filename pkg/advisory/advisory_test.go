package advisory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSuggestionFor(t *testing.T) {
	assert.Equal(t, SuggestionTrust, SuggestionFor(4.0))
	assert.Equal(t, SuggestionTrust, SuggestionFor(4.8))
	assert.Equal(t, SuggestionDecent, SuggestionFor(3.0))
	assert.Equal(t, SuggestionDecent, SuggestionFor(3.9))
	assert.Equal(t, SuggestionCaution, SuggestionFor(2.9))
	assert.Equal(t, SuggestionCaution, SuggestionFor(0))
}

func TestGenerate_SuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"This merchant shows a steady record."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", logrus.New())
	got := c.Generate(context.Background(), "summarize")
	assert.Equal(t, "This merchant shows a steady record.", got)
}

func TestGenerate_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", logrus.New())
	assert.Equal(t, FallbackReport, c.Generate(context.Background(), "summarize"))
}

func TestGenerate_FallsBackWhenUnconfigured(t *testing.T) {
	c := NewClient("", "", "test-model", logrus.New())
	assert.Equal(t, FallbackReport, c.Generate(context.Background(), "summarize"))
}

func TestGenerate_FallsBackOnEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model", logrus.New())
	assert.Equal(t, FallbackReport, c.Generate(context.Background(), "summarize"))
}
