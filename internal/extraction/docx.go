package extraction

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// DOCXDecoder extracts paragraph text from a WordprocessingML document
type DOCXDecoder struct{}

// NewDOCXDecoder creates a DOCX decoder
func NewDOCXDecoder() *DOCXDecoder {
	return &DOCXDecoder{}
}

// Format returns types.FormatDOCX
func (d *DOCXDecoder) Format() types.Format {
	return types.FormatDOCX
}

// Decode opens the OOXML package and flattens word/document.xml into one line per paragraph
func (d *DOCXDecoder) Decode(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Format: types.FormatDOCX, Message: "malformed DOCX", Cause: fmt.Errorf("%v", r)}
		}
	}()

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: types.FormatDOCX, Message: "failed to open DOCX", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	content := doc.Editable().GetContent()
	if strings.TrimSpace(content) == "" {
		return "", &ExtractionError{Format: types.FormatDOCX, Message: "document body is missing"}
	}

	text, err = paragraphText(content)
	if err != nil {
		return "", &ExtractionError{Format: types.FormatDOCX, Message: "failed to parse document body", Cause: err}
	}
	return text, nil
}

// paragraphText walks document.xml keeping the text of w:t runs.
// Paragraph ends and w:br become newlines, w:tab becomes a tab.
func paragraphText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))
	var sb strings.Builder
	inText := false
	// w:tab inside w:pPr declares a tab stop, not a tab character
	inProps := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "pPr":
				inProps = true
			case "tab":
				if !inProps {
					sb.WriteString("\t")
				}
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "pPr":
				inProps = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}

	return sb.String(), nil
}
