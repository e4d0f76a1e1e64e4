package evaluation

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-evaluator/internal/extraction"
	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/scoring"
	"github.com/jonathan/resume-evaluator/internal/types"
)

var resumeLines = []string{
	"Jane Doe",
	"jane.doe@example.com | 555-123-4567",
	"Summary",
	"Backend engineer with Go experience.",
	"Experience",
	"- Developed payment APIs in Go",
	"- Led a team of four engineers",
	"- Implemented CI/CD pipelines",
	"- Designed PostgreSQL schemas",
	"- Reduced latency by 40%",
	"Education",
	"BSc Computer Science",
	"Skills",
	"Go, Python, Docker, Kubernetes, SQL",
}

// buildDOCX packs paragraphs into a minimal WordprocessingML package
func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, p)
	}

	files := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// plainExtractor treats document bytes as text
type plainExtractor struct{}

func (plainExtractor) Extract(_ context.Context, doc types.Document) (*types.ExtractedText, error) {
	if !doc.Format.Valid() {
		return nil, &extraction.UnsupportedFormatError{Format: string(doc.Format)}
	}
	text := extraction.FromText(string(doc.Data))
	return &text, nil
}

type stubScorer struct {
	name  types.ScorerName
	value float64
	panic bool
}

func (s stubScorer) Name() types.ScorerName { return s.name }

func (s stubScorer) Score(_ *types.ExtractedText, _ string) types.SubScore {
	if s.panic {
		panic("boom")
	}
	return types.SubScore{Name: s.name, Value: s.value, Evidence: []string{}}
}

func stubScorers(value float64) []scoring.Scorer {
	out := make([]scoring.Scorer, 0, len(types.ScorerNames))
	for _, name := range types.ScorerNames {
		out = append(out, stubScorer{name: name, value: value})
	}
	return out
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(rules.MustDefault(), scoring.DefaultWeights(), opts...)
	require.NoError(t, err)
	return p
}

func TestNewPipeline_ConfigurationErrors(t *testing.T) {
	r := rules.MustDefault()

	tests := []struct {
		name    string
		rules   *rules.Rules
		weights scoring.Weights
		opts    []Option
		message string
	}{
		{
			name:    "nil rules",
			weights: scoring.DefaultWeights(),
			message: "rules are required",
		},
		{
			name:    "weights do not sum to one",
			rules:   r,
			weights: scoring.Weights{ATS: 0.5, Keywords: 0.25},
			message: "weights must sum to 1",
		},
		{
			name:    "missing scorer",
			rules:   r,
			weights: scoring.DefaultWeights(),
			opts:    []Option{WithScorers(stubScorers(50)[:4]...)},
			message: `missing scorer "skills"`,
		},
		{
			name:    "duplicate scorer",
			rules:   r,
			weights: scoring.DefaultWeights(),
			opts:    []Option{WithScorers(append(stubScorers(50), stubScorer{name: types.ScorerATS})...)},
			message: `duplicate scorer "ats"`,
		},
		{
			name:    "unknown scorer",
			rules:   r,
			weights: scoring.DefaultWeights(),
			opts:    []Option{WithScorers(append(stubScorers(50)[:4], stubScorer{name: "style"})...)},
			message: `unknown scorer "style"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(tt.rules, tt.weights, tt.opts...)
			assert.Nil(t, p)

			var configErr *scoring.ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestEvaluate_DOCX(t *testing.T) {
	p := newTestPipeline(t, WithReportValidation(true))

	report, err := p.Evaluate(context.Background(), types.EvaluationRequest{
		Document:          types.Document{Format: types.FormatDOCX, Data: buildDOCX(t, resumeLines...)},
		TargetDescription: "Go engineer building payment APIs",
	})
	require.NoError(t, err)

	require.Len(t, report.SubScores, len(types.ScorerNames))
	for i, s := range report.SubScores {
		assert.Equal(t, types.ScorerNames[i], s.Name)
		assert.GreaterOrEqual(t, s.Value, 0.0)
		assert.LessOrEqual(t, s.Value, 100.0)
	}
	assert.Equal(t, 100.0, report.Value(types.ScorerATS))
	assert.GreaterOrEqual(t, report.Overall, 0.0)
	assert.LessOrEqual(t, report.Overall, 100.0)
	assert.Equal(t, scoring.LabelFor(report.Overall), report.Label)
	assert.Equal(t, 75.0, report.JDMatch)
	assert.NotEmpty(t, report.SuggestedRoles)
	assert.LessOrEqual(t, len(report.SuggestedRoles), 3)
	assert.Contains(t, report.SuggestedRoles, "DevOps Engineer")
}

func TestEvaluate_OverallIsWeightedSum(t *testing.T) {
	p := newTestPipeline(t, WithExtractor(plainExtractor{}))

	report, err := p.Evaluate(context.Background(), types.EvaluationRequest{
		Document: types.Document{Format: types.FormatPDF, Data: []byte(strings.Join(resumeLines, "\n"))},
	})
	require.NoError(t, err)

	w := scoring.DefaultWeights()
	expected := 0.0
	for _, s := range report.SubScores {
		expected += s.Value * w.For(s.Name)
	}
	assert.InDelta(t, expected, report.Overall, 0.005)
	assert.Equal(t, 0.0, report.JDMatch)
}

func TestEvaluate_UnsupportedFormat(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Evaluate(context.Background(), types.EvaluationRequest{
		Document: types.Document{Format: "rtf", Data: []byte("{\\rtf1}")},
	})

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageExtract, stageErr.Stage)

	var formatErr *extraction.UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "rtf", formatErr.Format)
}

func TestEvaluate_CorruptAndEmptyDocuments(t *testing.T) {
	p := newTestPipeline(t)

	for name, doc := range map[string]types.Document{
		"corrupt docx": {Format: types.FormatDOCX, Data: []byte("not a zip archive")},
		"corrupt pdf":  {Format: types.FormatPDF, Data: []byte("%PDF-1.4 garbage")},
		"empty":        {Format: types.FormatPDF},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Evaluate(context.Background(), types.EvaluationRequest{Document: doc})

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, StageExtract, stageErr.Stage)

			var extractErr *extraction.ExtractionError
			assert.ErrorAs(t, err, &extractErr)
		})
	}
}

func TestEvaluate_TargetTooLong(t *testing.T) {
	p := newTestPipeline(t, WithExtractor(plainExtractor{}))

	_, err := p.Evaluate(context.Background(), types.EvaluationRequest{
		Document:          types.Document{Format: types.FormatPDF, Data: []byte("some resume text")},
		TargetDescription: strings.Repeat("x", 20001),
	})

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageValidate, stageErr.Stage)

	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestEvaluateText_Degenerate(t *testing.T) {
	p := newTestPipeline(t, WithReportValidation(true))

	for _, raw := range []string{"", "   \n\n ", "hi"} {
		text := extraction.FromText(raw)
		report, err := p.EvaluateText(context.Background(), &text, "")
		require.NoError(t, err)

		for _, s := range report.SubScores {
			assert.Equal(t, 0.0, s.Value, s.Name)
		}
		assert.Equal(t, 0.0, report.Overall)
		assert.Equal(t, types.LabelNeedsImprovement, report.Label)
		assert.Equal(t, []string{"General Professional"}, report.SuggestedRoles)
		require.NotEmpty(t, report.Suggestions)
		assert.Contains(t, report.Suggestions[0], "too short")
	}

	report, err := p.EvaluateText(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Overall)
}

func TestEvaluate_Deterministic(t *testing.T) {
	p := newTestPipeline(t)
	req := types.EvaluationRequest{
		Document:          types.Document{Format: types.FormatDOCX, Data: buildDOCX(t, resumeLines...)},
		TargetDescription: "Kubernetes platform engineer with Terraform and AWS",
	}

	first, err := p.Evaluate(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := p.Evaluate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_ConcurrentCalls(t *testing.T) {
	p := newTestPipeline(t, WithExtractor(plainExtractor{}))
	req := types.EvaluationRequest{
		Document: types.Document{Format: types.FormatPDF, Data: []byte(strings.Join(resumeLines, "\n"))},
	}

	expected, err := p.Evaluate(context.Background(), req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	reports := make([]*types.ScoreReport, 8)
	errs := make([]error, 8)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = p.Evaluate(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i := range reports {
		require.NoError(t, errs[i])
		assert.Equal(t, expected, reports[i])
	}
}

func TestEvaluateText_ScorerPanic(t *testing.T) {
	scorers := stubScorers(50)
	scorers[2] = stubScorer{name: types.ScorerGrammar, panic: true}
	p := newTestPipeline(t, WithScorers(scorers...))

	text := extraction.FromText("plenty of words here")
	_, err := p.EvaluateText(context.Background(), &text, "")

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageScore, stageErr.Stage)
	assert.Contains(t, err.Error(), "panic: boom")
}

func TestEvaluateText_OutOfRangeScore(t *testing.T) {
	scorers := stubScorers(50)
	scorers[0] = stubScorer{name: types.ScorerATS, value: 150}
	p := newTestPipeline(t, WithScorers(scorers...))

	text := extraction.FromText("plenty of words here")
	_, err := p.EvaluateText(context.Background(), &text, "")

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageAggregate, stageErr.Stage)
}

func TestEvaluateText_Canceled(t *testing.T) {
	p := newTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := extraction.FromText(strings.Join(resumeLines, "\n"))
	_, err := p.EvaluateText(ctx, &text, "")

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageScore, stageErr.Stage)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEvaluateText_StubScores(t *testing.T) {
	p := newTestPipeline(t, WithScorers(stubScorers(80)...))

	text := extraction.FromText("plenty of words here")
	report, err := p.EvaluateText(context.Background(), &text, "")
	require.NoError(t, err)
	assert.Equal(t, 80.0, report.Overall)
	assert.Equal(t, types.LabelGood, report.Label)
}

func TestEvaluate_LogsWithoutContent(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := l.WithContext(context.Background())

	p := newTestPipeline(t, WithExtractor(plainExtractor{}))
	_, err := p.Evaluate(ctx, types.EvaluationRequest{
		Document: types.Document{Format: types.FormatPDF, Data: []byte(strings.Join(resumeLines, "\n"))},
	})
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "text extracted")
	assert.Contains(t, logs, "evaluation finished")
	assert.NotContains(t, logs, "jane.doe@example.com")
}

func TestPipeline_Accessors(t *testing.T) {
	p := newTestPipeline(t)
	assert.Equal(t, scoring.DefaultWeights(), p.Weights())
	assert.Same(t, rules.MustDefault(), p.Rules())
}

func TestStageError(t *testing.T) {
	err := &StageError{Stage: StageExtract, Err: assert.AnError}
	assert.Equal(t, "extract stage failed: "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
}
