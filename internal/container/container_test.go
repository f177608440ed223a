package container

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecomm/datagen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var replies = []string{
	`[{"id":"c1","name":"Tech","description":"d","subcategories":[{"id":"s1","name":"Phones","description":"d2","parent_id":"c1"}]}]`,
	`[{"id":"p1","name":"Phone","description":"x","category_id":"c1","subcategory_id":"s1","price":10}]`,
	`[{"id":"u1","name":"Ada","email":"a@x","join_date":"2024-01-01","purchase_history":[{"product_id":"p1"}]}]`,
}

func TestRunAgainstOllama(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		if calls >= len(replies) {
			t.Error("too many calls")
			return
		}
		body, _ := json.Marshal(map[string]any{
			"message": map[string]string{"role": "assistant", "content": replies[calls]},
			"done":    true,
		})
		calls++
		_, _ = w.Write(body)
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "dataset.json")
	cfg := &config.Config{
		Generator: config.GeneratorConfig{Theme: "Tech", Categories: 1, Products: 1, Users: 1},
		LLM:       config.LLMConfig{Provider: config.ProviderOllama, BaseURL: server.URL, Model: "m", Timeout: 5},
		Output:    config.OutputConfig{Path: out, Format: config.FormatJSON, Pretty: true},
	}

	app, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 3, calls)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \""))

	var dataset struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(data, &dataset))
	assert.Equal(t, map[string]int{"categories": 2, "products": 1, "users": 1}, dataset.Counts)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(&config.Config{LLM: config.LLMConfig{Provider: "bard"}})
	assert.Error(t, err)
}

