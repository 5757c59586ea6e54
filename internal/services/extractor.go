package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	dslipak "github.com/dslipak/pdf"
	"github.com/ledongthuc/pdf"
)

// Sentinel values used instead of errors for data-quality failures. Lower
// layers degrade to these so the pipeline always has a string to work with.
const (
	SentinelNoContent    = "No content"
	SentinelNotFound     = "Not Found"
	SentinelNotSpecified = "Not specified"
	SentinelNoEmail      = "No email found"
	SentinelNoMatches    = "No significant matches"
)

const (
	FormatText = "text"
	FormatPDF  = "pdf"
)

// Document is one ingested resume within a ranking run.
type Document struct {
	Filename string
	RawBytes []byte
	Text     string
	Format   string
}

type TextExtractorService interface {
	// Extract converts raw uploaded bytes into normalized text. The second
	// return value is false for unsupported file extensions, which the
	// caller skips silently. Extraction never fails: unreadable content
	// degrades to the "No content" sentinel.
	Extract(filename string, raw []byte) (Document, bool)
}

type textExtractorService struct{}

func NewTextExtractorService() TextExtractorService {
	return &textExtractorService{}
}

// Extract implements TextExtractorService.
func (s *textExtractorService) Extract(filename string, raw []byte) (Document, bool) {
	doc := Document{
		Filename: filename,
		RawBytes: raw,
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		doc.Format = FormatText
		doc.Text = decodePlainText(raw)
	case ".pdf":
		doc.Format = FormatPDF
		doc.Text = extractPDFText(raw)
	default:
		return Document{}, false
	}

	return doc, true
}

// decodePlainText decodes bytes as UTF-8, replacing undecodable bytes rather
// than failing.
func decodePlainText(raw []byte) string {
	text := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	text = strings.TrimSpace(text)
	if text == "" {
		return SentinelNoContent
	}
	return text
}

// extractPDFText runs the primary backend and retries with the secondary one
// on any failure. Both backends are known to panic on malformed streams, so
// each attempt is isolated.
func extractPDFText(raw []byte) string {
	if text, err := extractWithLedongthuc(raw); err == nil {
		return text
	}

	if text, err := extractWithDslipak(raw); err == nil {
		return text
	}

	return SentinelNoContent
}

func extractWithLedongthuc(raw []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	text = strings.TrimSpace(textBuilder.String())
	if text == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

func extractWithDslipak(raw []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", r)
		}
	}()

	reader, err := dslipak.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract plain text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plainText); err != nil {
		return "", fmt.Errorf("failed to read text buffer: %w", err)
	}

	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

var (
	emailRegex      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	punctRegex      = regexp.MustCompile(`[^\w\s]`)
	boilerRegex     = regexp.MustCompile(`\b(professional summary|summary|references|education|certifications)\b`)
)

// ExtractEmail returns the first email address in the text, or a sentinel.
func ExtractEmail(text string) string {
	if strings.TrimSpace(text) == "" {
		return SentinelNoEmail
	}

	if match := emailRegex.FindString(text); match != "" {
		return match
	}

	return SentinelNoEmail
}

// CleanText normalizes text for vectorization and lexical matching:
// lowercased, punctuation stripped, boilerplate headings removed. Embedding
// and TF-IDF matching both run on this representation.
func CleanText(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = punctRegex.ReplaceAllString(text, "")
	text = strings.ToLower(strings.TrimSpace(text))
	text = boilerRegex.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))

	if text == "" {
		return SentinelNoContent
	}

	return text
}
