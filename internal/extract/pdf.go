package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// ReadPDFText extracts the plain text of the PDF at path.
func ReadPDFText(path string) (string, error) {
	reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %q: %w", path, err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("pdf %q contains no extractable text", path)
	}

	return text, nil
}
