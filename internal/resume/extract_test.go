package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormatFromFilename(t *testing.T) {
	cases := []struct {
		name     string
		expected Format
		wantErr  bool
	}{
		{"resume.pdf", FormatPDF, false},
		{"Resume.PDF", FormatPDF, false},
		{"cv.docx", FormatDOCX, false},
		{"notes.txt", "", true},
		{"archive.doc", "", true},
		{"no-extension", "", true},
	}

	for _, tc := range cases {
		format, err := FormatFromFilename(tc.name)
		if tc.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if format != tc.expected {
			t.Fatalf("%s: expected format %s, got %s", tc.name, tc.expected, format)
		}
	}
}

func TestExtractPDFReadsRawText(t *testing.T) {
	extractor := NewPlainExtractor()

	text, err := extractor.Extract([]byte("Jane Doe\njane@example.com"), FormatPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\njane@example.com" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractUnknownFormat(t *testing.T) {
	extractor := NewPlainExtractor()

	if _, err := extractor.Extract([]byte("data"), Format("rtf")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>jane@example.com</w:t></w:r><w:r><w:t> 555-123-4567</w:t></w:r></w:p>
  </w:body>
</w:document>`

	extractor := NewPlainExtractor()

	text, err := extractor.Extract(buildDOCX(t, documentXML), FormatDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(lines), text)
	}
	if lines[0] != "Jane Doe" {
		t.Fatalf("unexpected first paragraph: %q", lines[0])
	}
	if lines[1] != "jane@example.com 555-123-4567" {
		t.Fatalf("unexpected second paragraph: %q", lines[1])
	}
}

func TestExtractDOCXGarbage(t *testing.T) {
	extractor := NewPlainExtractor()

	if _, err := extractor.Extract([]byte("not a zip archive"), FormatDOCX); err == nil {
		t.Fatalf("expected an error for a broken archive")
	}
}

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	entry, err := writer.Create("word/document.xml")
	if err != nil {
		t.Fatalf("creating archive entry: %v", err)
	}
	if _, err := entry.Write([]byte(documentXML)); err != nil {
		t.Fatalf("writing document xml: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}

	return buf.Bytes()
}
