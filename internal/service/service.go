package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/ingest"
	"ecomm/datagen/internal/invoker"
	"ecomm/datagen/internal/prompt"
	"ecomm/datagen/internal/repository"
	"ecomm/datagen/internal/state"

	log "github.com/sirupsen/logrus"
)

// ErrStagesFailed is returned by Run when at least one stage ended in Failed.
// The dataset is still written.
var ErrStagesFailed = errors.New("one or more stages failed")

// Invoker is the model call a stage depends on.
type Invoker interface {
	Invoke(ctx context.Context, prompt, label string) invoker.Result
}

// StageResult is what one stage call produced. Records is either the full
// accumulated collection of the session or a single sentinel error record.
type StageResult struct {
	Stage   domain.Stage
	State   domain.StageState
	History []domain.StageState
	Records []domain.Record
	Report  *ingest.Report
	Err     error
}

func (r *StageResult) transition(s domain.StageState) {
	r.State = s
	r.History = append(r.History, s)
}

func (r *StageResult) fail(err error, text, message string) *StageResult {
	r.transition(domain.StateFailed)
	r.Err = err
	r.Records = []domain.Record{domain.ErrorRecord(text, message)}
	return r
}

func (r *StageResult) Failed() bool {
	return r.State == domain.StateFailed
}

func (r *StageResult) Summary() repository.StageSummary {
	s := repository.StageSummary{
		Stage:  r.Stage,
		State:  r.State,
		Report: r.Report,
	}
	if r.Failed() && len(r.Records) == 1 {
		if msg, ok := r.Records[0]["error"].(string); ok {
			s.Error = msg
		}
	}
	return s
}

// stage describes how one pipeline phase is prompted, ingested and reported.
type stage struct {
	name domain.Stage

	// precondition returns the sentinel texts and error when the stage cannot run yet.
	precondition func(*state.Session) (text, message string, err error)
	prompt       func(*state.Session) string
	ingest       func(*state.Session, string) (*ingest.Report, error)
	records      func(*state.Session) []domain.Record

	generateError string // sentinel text for invocation failures
	processError  string // sentinel text for processing failures
	processPrefix string
}

type Service struct {
	invoker Invoker
	prompts prompt.Builder
	writer  repository.DatasetWriter
}

func NewService(invoker Invoker, prompts prompt.Builder, writer repository.DatasetWriter) *Service {
	return &Service{
		invoker: invoker,
		prompts: prompts,
		writer:  writer,
	}
}

func (s *Service) stages() map[domain.Stage]stage {
	return map[domain.Stage]stage{
		domain.StageCategories: {
			name:          domain.StageCategories,
			prompt:        func(*state.Session) string { return s.prompts.CategoryPrompt() },
			ingest:        ingest.Categories,
			records:       (*state.Session).CategoryRecords,
			generateError: "Error generating categories",
			processError:  "Error processing categories",
			processPrefix: "Failed to process response",
		},
		domain.StageProducts: {
			name: domain.StageProducts,
			precondition: func(session *state.Session) (string, string, error) {
				if session.Counts().Categories == 0 {
					return "Error: No categories available", "Categories must be generated first", ingest.ErrNoCategories
				}
				return "", "", nil
			},
			prompt:        s.prompts.ProductPrompt,
			ingest:        ingest.Products,
			records:       (*state.Session).ProductRecords,
			generateError: "Error generating products",
			processError:  "Error generating products",
			processPrefix: "Unexpected error",
		},
		domain.StageUsers: {
			name: domain.StageUsers,
			precondition: func(session *state.Session) (string, string, error) {
				c := session.Counts()
				if c.Products == 0 || c.Categories == 0 {
					msg := "Products and categories must be generated first"
					return "Error: " + msg, msg, ingest.ErrNoProducts
				}
				return "", "", nil
			},
			prompt:        s.prompts.UserPrompt,
			ingest:        ingest.Users,
			records:       (*state.Session).UserRecords,
			generateError: "Error generating users",
			processError:  "Error generating users",
			processPrefix: "Unexpected error",
		},
	}
}

func (s *Service) GenerateCategories(ctx context.Context, session *state.Session) *StageResult {
	return s.Generate(ctx, domain.StageCategories, session)
}

func (s *Service) GenerateProducts(ctx context.Context, session *state.Session) *StageResult {
	return s.Generate(ctx, domain.StageProducts, session)
}

func (s *Service) GenerateUsers(ctx context.Context, session *state.Session) *StageResult {
	return s.Generate(ctx, domain.StageUsers, session)
}

// Generate runs one stage against session. It never returns an error:
// failures are reported through the result's sentinel record and Err.
func (s *Service) Generate(ctx context.Context, name domain.Stage, session *state.Session) (result *StageResult) {
	st, ok := s.stages()[name]
	result = &StageResult{Stage: name}
	result.transition(domain.StateNotStarted)
	if !ok {
		return result.fail(fmt.Errorf("unknown stage %q", name), "Error: unknown stage", fmt.Sprintf("Unknown stage %s", name))
	}

	logger := log.WithFields(log.Fields{
		"stage":   name.String(),
		"session": session.ID(),
	})

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("❌ Unexpected error in %s: %v", name.GetStageName(), r)
			result = result.fail(fmt.Errorf("panic: %v", r), st.processError, fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	if st.precondition != nil {
		if text, msg, err := st.precondition(session); err != nil {
			logger.Errorf("❌ Attempting to run %s: %v", name.GetStageName(), err)
			return result.fail(err, text, msg)
		}
	}

	logger.Infof("🔄 Starting %s", name.GetStageName())

	result.transition(domain.StateInvoking)
	res := s.invoker.Invoke(ctx, st.prompt(session), name.GetStageName())

	if !res.OK() && !errors.Is(res.Err, invoker.ErrValidation) {
		logger.Errorf("❌ Failed to get valid response: %v", res.Err)
		return result.fail(res.Err, st.generateError, "Failed to get valid response: "+res.Detail())
	}

	result.transition(domain.StateValidating)
	if !res.OK() {
		logger.Errorf("❌ Failed to get valid response: %v", res.Err)
		return result.fail(res.Err, st.generateError, "Failed to get valid response: "+res.Detail())
	}

	result.transition(domain.StateIngesting)
	report, err := st.ingest(session, res.Content)
	if err != nil {
		logger.Errorf("❌ Failed to process response: %v", err)
		return result.fail(err, st.processError, fmt.Sprintf("%s: %v", st.processPrefix, err))
	}

	result.Report = report
	result.Records = st.records(session)
	result.transition(domain.StateDone)

	logger.Infof("✅ Completed %s: %d accepted, %d skipped, %d total",
		name.GetStageName(), report.AcceptedCount(), report.SkippedCount(), len(result.Records))
	return result
}

// Run executes every stage once against a fresh session and writes the dataset.
func (s *Service) Run(ctx context.Context) (*repository.Dataset, error) {
	session := state.NewSession()
	logger := log.WithField("session", session.ID())
	logger.Infof("🚀 Generating dataset for theme %q", s.prompts.Theme)

	summaries := make([]repository.StageSummary, 0, len(domain.Stages))
	var failed []string

	for _, name := range domain.Stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := s.Generate(ctx, name, session)
		summaries = append(summaries, result.Summary())
		if result.Failed() {
			failed = append(failed, name.String())
		}
	}

	counts := session.Counts()
	logger.Infof("📦 Session holds %d categories, %d products, %d users",
		counts.Categories, counts.Products, counts.Users)

	dataset := repository.NewDataset(session, s.prompts.Theme, summaries)
	if err := s.writer.Write(ctx, dataset); err != nil {
		return nil, fmt.Errorf("failed to write dataset: %w", err)
	}

	if len(failed) > 0 {
		return dataset, fmt.Errorf("%w: %s", ErrStagesFailed, strings.Join(failed, ", "))
	}
	return dataset, nil
}
