package util

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractText pulls plain text from an uploaded resume. PDFs (and the other
// formats MuPDF handles, e.g. EPUB/XPS) go through go-fitz; plain text is
// passed through. No OCR: image-only documents yield empty text and the
// caller rejects them.
func ExtractText(fileBytes []byte, mimeHint string) (string, error) {
	if strings.HasPrefix(mimeHint, "text/") {
		return string(fileBytes), nil
	}

	doc, err := fitz.NewFromMemory(fileBytes)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", n+1, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
