package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"archivist/internal/catalog"
	"archivist/internal/extract"
)

// contentFlags selects where post content comes from.
type contentFlags struct {
	file    string
	cleanup bool
	ocr     bool
}

func (f *contentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "content-file", "", "Read content from a file instead of extracting it (- for stdin)")
	cmd.Flags().BoolVar(&f.cleanup, "cleanup", false, "Join hyphenated line breaks and normalize whitespace")
	cmd.Flags().BoolVar(&f.ocr, "ocr", false, "Run the configured OCR command on the PDF instead of plain extraction")
}

type preparedContent struct {
	Text           string `json:"text"`
	Source         string `json:"source,omitempty"`
	OCRUsed        bool   `json:"ocr_used"`
	CleanupApplied bool   `json:"cleanup_applied"`
}

// prepareContent resolves the content for item per flags. Plain extraction
// never fails; OCR and content files do.
func (c *commandContext) prepareContent(ctx context.Context, in io.Reader, item catalog.Item, flags contentFlags) (preparedContent, error) {
	var content preparedContent
	switch {
	case strings.TrimSpace(flags.file) != "":
		text, source, err := readContentFile(in, flags.file)
		if err != nil {
			return preparedContent{}, err
		}
		content.Text, content.Source = text, source
	case flags.ocr:
		if !item.HasPrimary() {
			return preparedContent{}, fmt.Errorf("ocr %s: item has no PDF source", item.GroupKey)
		}
		extractor, err := c.extractor()
		if err != nil {
			return preparedContent{}, err
		}
		text, err := extractor.OCR(ctx, item.PrimaryPath)
		if err != nil {
			return preparedContent{}, err
		}
		content = preparedContent{Text: text, Source: item.PrimaryPath, OCRUsed: true}
	default:
		extractor, err := c.extractor()
		if err != nil {
			return preparedContent{}, err
		}
		result := extractor.InitialText(ctx, item)
		content.Text, content.Source = result.Text, result.Source
	}
	if flags.cleanup {
		content.Text = extract.Cleanup(content.Text)
		content.CleanupApplied = true
	}
	return content, nil
}

func readContentFile(in io.Reader, path string) (string, string, error) {
	path = strings.TrimSpace(path)
	if path == "-" {
		if in == nil {
			return "", "", errors.New("read content: stdin is unavailable")
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return "", "", fmt.Errorf("read content from stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read content file: %w", err)
	}
	return string(data), path, nil
}
