package cv

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when a PDF yields no extractable text.
var ErrEmptyDocument = errors.New("pdf contains no extractable text")

// ExtractText pulls the plain text out of raw PDF bytes. Corrupt or encrypted
// files fail with a wrapped extraction error.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("pdf content is empty")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	if buf.Len() == 0 {
		return "", ErrEmptyDocument
	}

	return buf.String(), nil
}

// ExtractTextFromBase64 decodes a base64 payload and extracts its text.
func ExtractTextFromBase64(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode base64 content: %w", err)
	}

	return ExtractText(data)
}
