// Package extract converts source documents (PDF or plain text) into text
// suitable for analysis.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError indicates the source document could not be read or yielded
// no usable text. It aborts the whole pipeline run.
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Path, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Extractor converts a document into plain text
type Extractor interface {
	Extract(path string) (string, error)
}

// FileExtractor extracts text from PDF and plain-text documents on disk
type FileExtractor struct{}

// NewFileExtractor creates a FileExtractor
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Extract reads the document at path and returns its preprocessed text.
// An unreadable file or empty output is reported as *ExtractionError.
func (e *FileExtractor) Extract(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &ExtractionError{Path: path, Message: "file not found", Cause: err}
	}

	var text string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDF(path)
	case ".txt", ".md":
		text, err = extractPlainText(path)
	default:
		return "", &ExtractionError{Path: path, Message: "unsupported file type"}
	}
	if err != nil {
		return "", err
	}

	text = Preprocess(text)
	if text == "" {
		return "", &ExtractionError{Path: path, Message: "no text was extracted from the document"}
	}
	return text, nil
}

// extractPDF pulls the plain-text content out of a PDF file
func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to open PDF", Cause: err}
	}
	defer func() { _ = f.Close() }()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to read PDF text", Cause: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to read PDF stream", Cause: err}
	}
	return buf.String(), nil
}

// extractPlainText reads a text or markdown file verbatim
func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to read file", Cause: err}
	}
	return string(data), nil
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	experienceRe = regexp.MustCompile(`(?i)(work experience|employment history|professional experience)`)
	educationRe  = regexp.MustCompile(`(?i)(education|academic background)`)
	skillsRe     = regexp.MustCompile(`(?i)(technical skills|core competencies)`)
)

// Preprocess cleans raw document text for analysis: whitespace is collapsed
// and common section headers are normalized so the profile extractor sees
// consistent markers.
func Preprocess(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = experienceRe.ReplaceAllString(text, "WORK EXPERIENCE")
	text = educationRe.ReplaceAllString(text, "EDUCATION")
	text = skillsRe.ReplaceAllString(text, "SKILLS")
	return strings.TrimSpace(text)
}
