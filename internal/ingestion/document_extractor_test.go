package ingestion

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
		wantErr  error
	}{
		{
			name:     "plain text is returned trimmed",
			filename: "cv.txt",
			data:     []byte("  Jane Doe\nGo Engineer  \n"),
			want:     "Jane Doe\nGo Engineer",
		},
		{
			name:     "extension is case insensitive",
			filename: "CV.TXT",
			data:     []byte("Jane"),
			want:     "Jane",
		},
		{
			name:     "unsupported extension",
			filename: "cv.odt",
			data:     []byte("whatever"),
			wantErr:  ErrUnsupportedType,
		},
		{
			name:     "legacy doc is unsupported",
			filename: "cv.doc",
			data:     []byte("whatever"),
			wantErr:  ErrUnsupportedType,
		},
		{
			name:     "blank text file",
			filename: "cv.txt",
			data:     []byte(" \n\t "),
			wantErr:  ErrEmptyDocument,
		},
		{
			name:     "binary text file",
			filename: "cv.txt",
			data:     []byte{0xff, 0xfe, 0x00, 0x81},
			wantErr:  ErrUnreadable,
		},
		{
			name:     "garbage pdf",
			filename: "cv.pdf",
			data:     []byte("this is not a pdf"),
			wantErr:  ErrUnreadable,
		},
		{
			name:     "garbage docx",
			filename: "cv.docx",
			data:     []byte("PK not really a zip"),
			wantErr:  ErrUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(tt.filename, tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ExtractText() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractText() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTextDocx(t *testing.T) {
	data := buildDocx(t, "Jane Doe", "Backend Engineer, Jakarta")

	got, err := ExtractText("resume.docx", data)
	if err != nil {
		t.Fatalf("ExtractText() unexpected error: %v", err)
	}
	for _, want := range []string{"Jane Doe", "Backend Engineer, Jakarta"} {
		if !strings.Contains(got, want) {
			t.Errorf("ExtractText() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "<w:t>") {
		t.Errorf("ExtractText() leaked markup: %q", got)
	}
}

func TestExtractTextTooLarge(t *testing.T) {
	_, err := ExtractText("cv.txt", make([]byte, MaxFileSize+1))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("ExtractText() error = %v, want %v", err, ErrTooLarge)
	}
}

func TestDocumentXMLText(t *testing.T) {
	in := `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p><w:p><w:r><w:t>C</w:t></w:r></w:p></w:body></w:document>`
	got, err := documentXMLText(in)
	if err != nil {
		t.Fatalf("documentXMLText() unexpected error: %v", err)
	}
	if want := "A\tB\nC\n"; got != want {
		t.Errorf("documentXMLText() = %q, want %q", got, want)
	}
}

func TestSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.pdf": true, "a.DOCX": true, "a.txt": true, "a.doc": false, "a": false,
	} {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}
