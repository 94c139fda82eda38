package knowledge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LoadPassages reads a profile document and splits it into passages
// suitable for indexing. PDF documents are extracted with ledongthuc/pdf;
// anything else is treated as plain text.
func LoadPassages(path string, chunkSize int) ([]string, error) {
	var text string
	var err error

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = readPDF(path)
	} else {
		text, err = readText(path)
	}
	if err != nil {
		return nil, err
	}

	passages := chunkParagraphs(text, chunkSize)
	if len(passages) == 0 {
		return nil, fmt.Errorf("no text content in %s", path)
	}
	return passages, nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text %s: %w", path, err)
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read pdf text %s: %w", path, err)
	}
	return string(b), nil
}

func readText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// chunkParagraphs splits text on blank lines and packs consecutive
// paragraphs into chunks of at most chunkSize characters. A single
// paragraph longer than chunkSize stays whole.
func chunkParagraphs(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 800
	}

	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p)+1 > chunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
