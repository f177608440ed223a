// Package ingest turns validated model output into accepted domain
// entities. Malformed items are skipped one by one and recorded in a
// Report; only input that is not a JSON array fails a whole batch.
package ingest

import (
	"errors"

	"ecomm/datagen/internal/domain"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNotArray     = errors.New("response is not a JSON array")
	ErrNoCategories = errors.New("categories must be generated first")
	ErrNoProducts   = errors.New("products and categories must be generated first")
)

type SkipReason string

const (
	ReasonMissingField     SkipReason = "missing_field"
	ReasonUnknownReference SkipReason = "unknown_reference"
	ReasonInvalidPrice     SkipReason = "invalid_price"
	ReasonInvalidItem      SkipReason = "invalid_item"

	// Reasons below only ever appear as notes: the item is kept.
	ReasonInvalidDate    SkipReason = "invalid_date"
	ReasonParentMismatch SkipReason = "parent_mismatch"
)

// Kinds of item a Skip can refer to.
const (
	KindCategory         = "category"
	KindSubcategory      = "subcategory"
	KindProduct          = "product"
	KindUser             = "user"
	KindPurchase         = "purchase"
	KindFavoriteCategory = "favorite_category"
)

// Skip describes one item that was dropped or, in Report.Notes, one that
// was kept after a normalisation. Index is the position in the top-level
// array.
type Skip struct {
	Index  int        `json:"index" yaml:"index"`
	ID     string     `json:"id,omitempty" yaml:"id,omitempty"`
	Kind   string     `json:"kind" yaml:"kind"`
	Reason SkipReason `json:"reason" yaml:"reason"`
	Detail string     `json:"detail" yaml:"detail"`
}

// Report is the outcome of one ingestion call.
type Report struct {
	Stage    domain.Stage `json:"stage" yaml:"stage"`
	Received int          `json:"received" yaml:"received"`
	Accepted []string     `json:"accepted" yaml:"accepted"`
	Skipped  []Skip       `json:"skipped" yaml:"skipped"`
	Notes    []Skip       `json:"notes,omitempty" yaml:"notes,omitempty"`

	logger *log.Entry
}

func newReport(stage domain.Stage, received int) *Report {
	return &Report{
		Stage:    stage,
		Received: received,
		Accepted: []string{},
		Skipped:  []Skip{},
		logger:   log.WithField("stage", stage.String()),
	}
}

func (r *Report) accept(id string) {
	r.Accepted = append(r.Accepted, id)
}

func (r *Report) skip(s Skip) {
	r.logger.Warnf("⚠️ Skipping %s %d (%s): %s", s.Kind, s.Index, s.Reason, s.Detail)
	r.Skipped = append(r.Skipped, s)
}

func (r *Report) note(s Skip) {
	r.logger.Warnf("✏️ %s %d (%s): %s", s.Kind, s.Index, s.Reason, s.Detail)
	r.Notes = append(r.Notes, s)
}

func (r *Report) AcceptedCount() int {
	return len(r.Accepted)
}

// SkippedCount counts dropped items, optionally only those of the given kinds.
func (r *Report) SkippedCount(kinds ...string) int {
	if len(kinds) == 0 {
		return len(r.Skipped)
	}
	n := 0
	for _, s := range r.Skipped {
		for _, k := range kinds {
			if s.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Reasons returns how many skips each reason produced.
func (r *Report) Reasons() map[SkipReason]int {
	out := make(map[SkipReason]int)
	for _, s := range r.Skipped {
		out[s.Reason]++
	}
	return out
}
