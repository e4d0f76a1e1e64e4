package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// PDFDecoder extracts the plain text of every page of a PDF document
type PDFDecoder struct{}

// NewPDFDecoder creates a PDF decoder
func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{}
}

// Format returns types.FormatPDF
func (d *PDFDecoder) Format() types.Format {
	return types.FormatPDF
}

// Decode reads all pages in order, separating pages with a newline.
// Corrupt and encrypted files produce an ExtractionError.
func (d *PDFDecoder) Decode(ctx context.Context, data []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Format: types.FormatPDF, Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if isEncrypted(data, err) {
			return "", &ExtractionError{Format: types.FormatPDF, Message: "encrypted PDF is not supported", Cause: err}
		}
		return "", &ExtractionError{Format: types.FormatPDF, Message: "failed to open PDF", Cause: err}
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	if numPages == 0 {
		return "", &ExtractionError{Format: types.FormatPDF, Message: "PDF has no pages"}
	}

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{
				Format:  types.FormatPDF,
				Message: fmt.Sprintf("failed to read page %d", i),
				Cause:   err,
			}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// isEncrypted reports whether an open failure comes from an encryption dictionary.
// Files protected only by an empty user password open normally and never get here.
func isEncrypted(data []byte, err error) bool {
	return errors.Is(err, pdf.ErrInvalidPassword) || bytes.Contains(data, []byte("/Encrypt"))
}
