package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/ingest"
	"ecomm/datagen/internal/state"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// StageSummary is the per-stage section of an exported dataset.
type StageSummary struct {
	Stage  domain.Stage      `json:"stage" yaml:"stage"`
	State  domain.StageState `json:"state" yaml:"state"`
	Error  string            `json:"error,omitempty" yaml:"error,omitempty"`
	Report *ingest.Report    `json:"report,omitempty" yaml:"report,omitempty"`
}

// Dataset is the export of one finished run.
type Dataset struct {
	SessionID   string          `json:"session_id" yaml:"session_id"`
	Theme       string          `json:"theme" yaml:"theme"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Counts      state.Counts    `json:"counts" yaml:"counts"`
	Categories  []domain.Record `json:"categories" yaml:"categories"`
	Products    []domain.Record `json:"products" yaml:"products"`
	Users       []domain.Record `json:"users" yaml:"users"`
	Stages      []StageSummary  `json:"report" yaml:"report"`
}

func NewDataset(session *state.Session, theme string, stages []StageSummary) *Dataset {
	return &Dataset{
		SessionID:   session.ID(),
		Theme:       theme,
		GeneratedAt: time.Now().UTC(),
		Counts:      session.Counts(),
		Categories:  session.CategoryRecords(),
		Products:    session.ProductRecords(),
		Users:       session.UserRecords(),
		Stages:      stages,
	}
}

type DatasetWriter interface {
	Write(ctx context.Context, dataset *Dataset) error
}

type datasetWriter struct {
	path   string
	format string
	pretty bool
	out    io.Writer
}

// NewDatasetWriter writes to cfg.Path, or to stdout when the path is empty.
func NewDatasetWriter(cfg config.OutputConfig) DatasetWriter {
	return &datasetWriter{
		path:   cfg.Path,
		format: strings.ToLower(cfg.Format),
		pretty: cfg.Pretty,
		out:    os.Stdout,
	}
}

// NewStreamWriter writes every dataset to w.
func NewStreamWriter(w io.Writer, format string, pretty bool) DatasetWriter {
	return &datasetWriter{
		format: strings.ToLower(format),
		pretty: pretty,
		out:    w,
	}
}

func (w *datasetWriter) Write(ctx context.Context, dataset *Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := w.encode(dataset)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	if w.path == "" {
		if _, err := w.out.Write(data); err != nil {
			return fmt.Errorf("failed to write dataset: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	log.Infof("💾 Dataset written to %s", w.path)
	return nil
}

// encode renders the dataset. Pretty only affects JSON.
func (w *datasetWriter) encode(dataset *Dataset) ([]byte, error) {
	switch w.format {
	case config.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dataset); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case config.FormatJSON, "":
		var (
			data []byte
			err  error
		)
		if w.pretty {
			data, err = json.MarshalIndent(dataset, "", "  ")
		} else {
			data, err = json.Marshal(dataset)
		}
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", w.format)
	}
}
