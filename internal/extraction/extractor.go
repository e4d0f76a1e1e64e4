package extraction

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/types"
)

const mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Decoder turns the raw bytes of one document format into plain text
type Decoder interface {
	Format() types.Format
	Decode(ctx context.Context, data []byte) (string, error)
}

// Extractor dispatches documents to the decoder registered for their format
type Extractor struct {
	decoders map[types.Format]Decoder
}

// NewExtractor creates an Extractor. With no decoders it registers the PDF and DOCX decoders.
func NewExtractor(decoders ...Decoder) *Extractor {
	if len(decoders) == 0 {
		decoders = []Decoder{NewPDFDecoder(), NewDOCXDecoder()}
	}
	e := &Extractor{decoders: make(map[types.Format]Decoder, len(decoders))}
	for _, d := range decoders {
		e.decoders[d.Format()] = d
	}
	return e
}

// ParseFormat maps a format tag, file extension or MIME type onto a supported Format
func ParseFormat(tag string) (types.Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	normalized = strings.TrimPrefix(normalized, ".")

	switch normalized {
	case "pdf", "application/pdf":
		return types.FormatPDF, nil
	case "docx", mimeDOCX:
		return types.FormatDOCX, nil
	default:
		return "", &UnsupportedFormatError{Format: tag}
	}
}

// FormatFromFilename derives the document format from a file name's extension
func FormatFromFilename(name string) (types.Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", &UnsupportedFormatError{Format: name}
	}
	return ParseFormat(ext)
}

// Extract decodes a document and attaches structural hints to its text.
// Unsupported formats are rejected before the bytes are inspected.
func (e *Extractor) Extract(ctx context.Context, doc types.Document) (*types.ExtractedText, error) {
	if !doc.Format.Valid() {
		return nil, &UnsupportedFormatError{Format: string(doc.Format)}
	}
	decoder, ok := e.decoders[doc.Format]
	if !ok {
		return nil, &UnsupportedFormatError{Format: string(doc.Format)}
	}

	if len(doc.Data) == 0 {
		return nil, &ExtractionError{Format: doc.Format, Message: "document is empty"}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := decoder.Decode(ctx, doc.Data)
	if err != nil {
		return nil, err
	}

	text := FromText(raw)
	return &text, nil
}
