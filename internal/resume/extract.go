// Package resume turns uploaded candidate documents into contact fields.
//
// Extraction is best-effort by contract: any field may come back empty and
// the interview falls back to asking for it directly.
package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format tags a document with its file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// ErrUnsupportedFormat is returned for documents outside the allow-listed
// set of formats.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// FormatFromFilename derives the document format from a file name.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Extract(data []byte, format Format) (string, error)
}

// PlainExtractor is the built-in Extractor. DOCX documents are unpacked and
// their paragraphs read from the document XML. PDF documents are read as raw
// text, which only works for uncompressed content streams; swap the
// Extractor when real PDF parsing is needed.
type PlainExtractor struct{}

func NewPlainExtractor() *PlainExtractor {
	return &PlainExtractor{}
}

func (e *PlainExtractor) Extract(data []byte, format Format) (string, error) {
	switch format {
	case FormatPDF:
		return string(data), nil
	case FormatDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening document xml: %w", err)
		}
		defer rc.Close()

		return readDocumentXML(rc)
	}

	return "", errors.New("docx archive has no word/document.xml")
}

// readDocumentXML walks the WordprocessingML token stream collecting text
// runs (w:t) and emitting a newline at every paragraph end (w:p).
func readDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		text   strings.Builder
		inText bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decoding document xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	return text.String(), nil
}
