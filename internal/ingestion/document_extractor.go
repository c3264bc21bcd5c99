package ingestion

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxFileSize caps uploads and attachments.
const MaxFileSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyDocument   = errors.New("no text could be extracted from document")
	ErrUnreadable      = errors.New("document could not be read")
	ErrTooLarge        = errors.New("document exceeds size limit")
)

var pdfcpuOnce sync.Once

// Supported reports whether ExtractText understands the file's extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

// ExtractText extracts plain text from a PDF, DOCX or TXT payload.
func ExtractText(filename string, data []byte) (string, error) {
	if len(data) > MaxFileSize {
		return "", ErrTooLarge
	}

	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not UTF-8 text", ErrUnreadable, filename)
		}
		text = string(data)
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	pdfcpuOnce.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return "", fmt.Errorf("%w: invalid pdf: %v", ErrUnreadable, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read pdf: %v", ErrUnreadable, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages with broken fonts; the rest is usually readable.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse docx: %v", ErrUnreadable, err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent())
}

// documentXMLText flattens WordprocessingML into text, one line per paragraph.
func documentXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: malformed document.xml: %v", ErrUnreadable, err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				sb.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}
