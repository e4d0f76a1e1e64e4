// Package evaluation runs the scoring pipeline: extraction, concurrent feature scoring,
// aggregation, suggestion generation and report assembly.
package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-evaluator/internal/extraction"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/schemas"
	"github.com/jonathan/resume-evaluator/internal/scoring"
	"github.com/jonathan/resume-evaluator/internal/suggestions"
	"github.com/jonathan/resume-evaluator/internal/types"
	schemafiles "github.com/jonathan/resume-evaluator/schemas"
)

// TextExtractor turns a document into text
type TextExtractor interface {
	Extract(ctx context.Context, doc types.Document) (*types.ExtractedText, error)
}

// Pipeline evaluates documents. It holds only immutable configuration and is safe for concurrent use.
type Pipeline struct {
	rules           *rules.Rules
	extractor       TextExtractor
	scorers         []scoring.Scorer
	aggregator      *scoring.Aggregator
	generator       *suggestions.Generator
	validate        *validator.Validate
	validateReports bool
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithExtractor replaces the default PDF and DOCX extractor
func WithExtractor(e TextExtractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

// WithScorers replaces the default scorer set. The set must still contain each scorer exactly once.
func WithScorers(scorers ...scoring.Scorer) Option {
	return func(p *Pipeline) {
		p.scorers = scorers
	}
}

// WithReportValidation checks every assembled report against the report JSON schema
func WithReportValidation(enabled bool) Option {
	return func(p *Pipeline) {
		p.validateReports = enabled
	}
}

// NewPipeline builds a pipeline from rule tables and aggregation weights.
// Invalid weights or an incomplete scorer set fail here with a scoring.ConfigurationError.
func NewPipeline(r *rules.Rules, w scoring.Weights, opts ...Option) (*Pipeline, error) {
	if r == nil {
		return nil, &scoring.ConfigurationError{Message: "rules are required"}
	}

	aggregator, err := scoring.NewAggregator(w)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		rules:      r,
		extractor:  extraction.NewExtractor(extraction.NewPDFDecoder(), extraction.NewDOCXDecoder()),
		aggregator: aggregator,
		generator:  suggestions.NewGenerator(r),
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.scorers == nil {
		p.scorers, err = scoring.NewScorers(r)
		if err != nil {
			return nil, err
		}
	}
	if err := checkScorerSet(p.scorers); err != nil {
		return nil, err
	}
	return p, nil
}

// checkScorerSet requires exactly one scorer per scorer name
func checkScorerSet(scorers []scoring.Scorer) error {
	seen := make(map[types.ScorerName]bool, len(scorers))
	for _, s := range scorers {
		if s == nil {
			return &scoring.ConfigurationError{Message: "nil scorer"}
		}
		name := s.Name()
		if scorerIndex(name) == len(types.ScorerNames) {
			return &scoring.ConfigurationError{Message: fmt.Sprintf("unknown scorer %q", name)}
		}
		if seen[name] {
			return &scoring.ConfigurationError{Message: fmt.Sprintf("duplicate scorer %q", name)}
		}
		seen[name] = true
	}
	for _, name := range types.ScorerNames {
		if !seen[name] {
			return &scoring.ConfigurationError{Message: fmt.Sprintf("missing scorer %q", name)}
		}
	}
	return nil
}

// Rules returns the rule tables of the pipeline
func (p *Pipeline) Rules() *rules.Rules {
	return p.rules
}

// Weights returns the aggregation weights of the pipeline
func (p *Pipeline) Weights() scoring.Weights {
	return p.aggregator.Weights()
}

// Evaluate extracts the document text and scores it
func (p *Pipeline) Evaluate(ctx context.Context, req types.EvaluationRequest) (*types.ScoreReport, error) {
	if err := p.validate.Struct(req); err != nil {
		return nil, &StageError{Stage: StageValidate, Err: err}
	}

	start := time.Now()
	text, err := p.extractor.Extract(ctx, req.Document)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}
	logger.Ctx(ctx).Debug().
		Str("format", string(req.Document.Format)).
		Int("bytes", len(req.Document.Data)).
		Int("text_length", len(text.Text)).
		Dur("duration", time.Since(start)).
		Msg("text extracted")

	return p.EvaluateText(ctx, text, req.TargetDescription)
}

// EvaluateText scores already extracted text. The five scorers run concurrently and
// the aggregator waits for all of them.
func (p *Pipeline) EvaluateText(ctx context.Context, text *types.ExtractedText, target string) (*types.ScoreReport, error) {
	if text == nil {
		empty := extraction.FromText("")
		text = &empty
	}
	log := logger.Ctx(ctx)

	start := time.Now()
	subScores, err := p.score(ctx, text, target)
	if err != nil {
		return nil, &StageError{Stage: StageScore, Err: err}
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("sub-scores computed")

	overall, label, err := p.aggregator.Aggregate(subScores)
	if err != nil {
		return nil, &StageError{Stage: StageAggregate, Err: err}
	}

	var result suggestions.Result
	err = recoverStage(func() {
		result = p.generator.Generate(subScores, text, target)
	})
	if err != nil {
		return nil, &StageError{Stage: StageSuggest, Err: err}
	}

	var report *types.ScoreReport
	err = recoverStage(func() {
		jdMatch := scoring.JDMatch(text.Text, target, p.rules.Keywords.TargetMinLetters)
		report = Assemble(subScores, overall, label, result, jdMatch)
	})
	if err == nil && p.validateReports {
		err = schemas.ValidateValue(schemafiles.ReportSchema, report)
	}
	if err != nil {
		return nil, &StageError{Stage: StageAssemble, Err: err}
	}

	log.Debug().
		Float64("overall", report.Overall).
		Str("label", string(report.Label)).
		Dur("duration", time.Since(start)).
		Msg("evaluation finished")
	return report, nil
}

// score runs every scorer in its own goroutine. Each goroutine writes only its own slot.
func (p *Pipeline) score(ctx context.Context, text *types.ExtractedText, target string) ([]types.SubScore, error) {
	results := make([]types.SubScore, len(p.scorers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, s := range p.scorers {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return recoverStage(func() {
				results[i] = s.Score(text, target)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// recoverStage runs fn and converts a panic into an error
func recoverStage(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}
