// Package resume validates resume uploads and pulls plain text out of them.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupported means the file may be stored but its text cannot be extracted.
	ErrUnsupported = errors.New("unsupported file type")
	ErrNotAllowed  = errors.New("please upload a PDF, DOC, DOCX, or TXT file")
)

var extensions = map[string]string{
	".txt":  MimeText,
	".pdf":  MimePDF,
	".doc":  MimeDoc,
	".docx": MimeDocx,
}

// Allowed reports whether mime is an accepted resume type.
func Allowed(mime string) bool {
	switch mime {
	case MimeText, MimePDF, MimeDoc, MimeDocx:
		return true
	}
	return false
}

// DetectMime normalizes the declared content type, falling back to the file
// extension when the client sent something generic.
func DetectMime(declared, filename string) (string, error) {
	mime := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if Allowed(mime) {
		return mime, nil
	}
	if byExt, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return byExt, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotAllowed, declared)
}

// ExtractText returns the plain text of a resume.
func ExtractText(mime string, data []byte) (string, error) {
	switch mime {
	case MimeText:
		return string(data), nil
	case MimePDF:
		return extractPDFText(bytes.NewReader(data), int64(len(data)))
	case MimeDocx:
		return extractDocxText(bytes.NewReader(data), int64(len(data)))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
}

func extractPDFText(reader io.ReaderAt, size int64) (string, error) {
	pdfReader, err := pdf.NewReader(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func extractDocxText(reader io.ReaderAt, size int64) (string, error) {
	doc, err := docx.ReadDocxFromMemory(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()
	return stripTags(doc.Editable().GetContent()), nil
}

// stripTags drops the WordprocessingML markup that GetContent returns.
func stripTags(xml string) string {
	var b strings.Builder
	inTag := false
	for _, r := range xml {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Excerpt trims text to at most n runes on a word boundary.
func Excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
