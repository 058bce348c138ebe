// Package ingest converts uploaded documents into plain text suitable for
// intent resolution.
package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/homegrid/intentd/internal/domain"
)

// MaxDocumentBytes caps uploaded documents at 20 MiB.
const MaxDocumentBytes = 20 << 20

// PDFText extracts the concatenated plain text of every page.
// Unreadable input maps to ErrInvalidInput so transport answers 400.
func PDFText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}
	if len(content) > MaxDocumentBytes {
		return "", fmt.Errorf("%w: document exceeds %d bytes", domain.ErrInvalidInput, MaxDocumentBytes)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open PDF: %v", domain.ErrInvalidInput, err)
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: extract page %d: %v", domain.ErrInvalidInput, i, err)
		}
		buf.WriteString(text)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}

	return strings.TrimSpace(buf.String()), nil
}
