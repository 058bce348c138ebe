package ingest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/homegrid/intentd/internal/domain"
)

func TestPDFText_Empty(t *testing.T) {
	_, err := PDFText(nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPDFText_Garbage(t *testing.T) {
	_, err := PDFText([]byte("this is not a pdf at all"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPDFText_TooLarge(t *testing.T) {
	big := bytes.Repeat([]byte{'a'}, MaxDocumentBytes+1)
	_, err := PDFText(big)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
