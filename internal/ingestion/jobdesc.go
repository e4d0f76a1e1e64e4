package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-evaluator/internal/fetch"
	"github.com/jonathan/resume-evaluator/internal/logger"
)

// MaxDescriptionRunes bounds a job description; longer text is truncated
const MaxDescriptionRunes = 20000

var (
	// ErrMultipleSources is returned when more than one source is set
	ErrMultipleSources = errors.New("only one of file, text or URL may be given")
	// ErrEmptyPosting is returned when a fetched page has no readable text
	ErrEmptyPosting = errors.New("job posting has no readable text")
)

// Source names where a job description comes from. At most one field may be set.
type Source struct {
	Path string
	Text string
	URL  string
}

// Metadata describes a loaded job description
type Metadata struct {
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Hash      string `json:"hash"`
	Truncated bool   `json:"truncated,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Pager fetches a page. *fetch.Fetcher implements it.
type Pager interface {
	Get(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// Loader resolves a Source into cleaned description text
type Loader struct {
	pager Pager
	now   func() time.Time
}

// NewLoader creates a Loader. A nil pager uses a default fetch.Fetcher.
func NewLoader(pager Pager) *Loader {
	if pager == nil {
		pager = fetch.New(nil)
	}
	return &Loader{pager: pager, now: time.Now}
}

// Load returns the cleaned description of src. An empty source yields "" and nil metadata.
func (l *Loader) Load(ctx context.Context, src Source) (string, *Metadata, error) {
	set := 0
	for _, v := range []string{src.Path, src.Text, src.URL} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return "", nil, ErrMultipleSources
	}

	var (
		text string
		meta = &Metadata{}
	)
	switch {
	case src.Path != "":
		content, err := os.ReadFile(src.Path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read job description file: %w", err)
		}
		text = string(content)
	case src.Text != "":
		text = src.Text
	case src.URL != "":
		var err error
		text, err = l.fromURL(ctx, src.URL, meta)
		if err != nil {
			return "", nil, err
		}
	default:
		return "", nil, nil
	}

	text, meta.Truncated = Truncate(CleanText(text), MaxDescriptionRunes)
	meta.Hash = hashText(text)
	meta.Timestamp = l.now().UTC().Format(time.RFC3339)
	return text, meta, nil
}

func (l *Loader) fromURL(ctx context.Context, rawURL string, meta *Metadata) (string, error) {
	platform := fetch.DetectPlatform(rawURL)
	log := logger.Ctx(ctx)

	result, err := l.pager.Get(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job posting: %w", err)
	}

	text, err := fetch.ExtractMainText(result.HTML, fetch.ContentSelectors(platform), fetch.NoiseSelectors(platform)...)
	if err != nil {
		return "", fmt.Errorf("failed to extract job posting: %w", err)
	}
	if text == "" {
		return "", ErrEmptyPosting
	}

	meta.URL = rawURL
	meta.Platform = string(platform)
	meta.Title = fetch.Title(result.HTML)
	log.Debug().
		Str("url", rawURL).
		Str("platform", meta.Platform).
		Int("html_bytes", len(result.HTML)).
		Int("text_length", len(text)).
		Msg("job posting fetched")
	return text, nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
