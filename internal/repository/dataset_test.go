package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/ingest"
	"ecomm/datagen/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	s := state.NewSession()
	_, err := ingest.Categories(s, `[{"id":"c1","name":"Tech","description":"d","subcategories":[{"id":"s1","name":"Phones","parent_id":"c1"}]}]`)
	require.NoError(t, err)
	_, err = ingest.Products(s, `[{"id":"p1","name":"Phone","description":"x","category_id":"c1","subcategory_id":"s1","price":5,"inventory":{"stock_count":3}}]`)
	require.NoError(t, err)

	return NewDataset(s, "Tech", []StageSummary{
		{Stage: domain.StageCategories, State: domain.StateDone},
		{Stage: domain.StageProducts, State: domain.StateDone},
		{Stage: domain.StageUsers, State: domain.StateFailed, Error: "Failed to get valid response: boom"},
	})
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf, config.FormatJSON, false)
	ds := testDataset(t)
	require.NoError(t, w.Write(context.Background(), ds))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, ds.SessionID, out["session_id"])
	assert.Len(t, out["categories"], 2)
	assert.Len(t, out["products"], 1)
	assert.Empty(t, out["users"])

	stages := out["report"].([]any)
	require.Len(t, stages, 3)
	assert.Equal(t, "failed", stages[2].(map[string]any)["state"])
}

func TestWriteYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dataset.yaml")
	w := NewDatasetWriter(config.OutputConfig{Path: path, Format: "YAML"})
	require.NoError(t, w.Write(context.Background(), testDataset(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out struct {
		Theme    string           `yaml:"theme"`
		Products []map[string]any `yaml:"products"`
		Counts   state.Counts     `yaml:"counts"`
	}
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, "Tech", out.Theme)
	assert.Equal(t, 2, out.Counts.Categories)
	require.Len(t, out.Products, 1)
	assert.Equal(t, map[string]any{"stock_count": 3}, out.Products[0]["inventory"])
}

func TestWriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewStreamWriter(&buf, config.FormatJSON, true).Write(ctx, testDataset(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewStreamWriter(&buf, "csv", true).Write(context.Background(), testDataset(t))
	assert.Error(t, err)
}
