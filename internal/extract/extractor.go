package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"archivist/internal/catalog"
	"archivist/internal/config"
	"archivist/internal/logging"
)

// PathToken is replaced with the document path in command templates.
const PathToken = "{path}"

// ErrNoCommand reports a format without a configured command.
var ErrNoCommand = errors.New("no extraction command configured")

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Command is an argv template containing PathToken.
type Command []string

// Expand substitutes path into the template. A template without PathToken
// receives path as its final argument.
func (c Command) Expand(path string) (string, []string, error) {
	if len(c) == 0 || strings.TrimSpace(c[0]) == "" {
		return "", nil, ErrNoCommand
	}
	args := make([]string, 0, len(c))
	substituted := false
	for _, arg := range c[1:] {
		if strings.Contains(arg, PathToken) {
			substituted = true
			arg = strings.ReplaceAll(arg, PathToken, path)
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, path)
	}
	return c[0], args, nil
}

// Extractor runs the configured commands.
type Extractor struct {
	pdf     Command
	docx    Command
	ocr     Command
	timeout time.Duration
	run     Runner
	logger  *slog.Logger
}

// Option customizes the extractor.
type Option func(*Extractor)

// WithRunner overrides command execution.
func WithRunner(run Runner) Option {
	return func(e *Extractor) {
		if run != nil {
			e.run = run
		}
	}
}

// WithLogger attaches a logger for degraded extractions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New builds an extractor from the extract config section.
func New(cfg config.Extract, opts ...Option) *Extractor {
	e := &Extractor{
		pdf:     Command(cfg.PDFCommand),
		docx:    Command(cfg.DOCXCommand),
		ocr:     Command(cfg.OCRCommand),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		run:     runCommand,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "extract")
	return e
}

// OCRAvailable reports whether an OCR command is configured.
func (e *Extractor) OCRAvailable() bool {
	return len(e.ocr) > 0 && strings.TrimSpace(e.ocr[0]) != ""
}

// Text extracts a single document, choosing the command by extension.
func (e *Extractor) Text(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.exec(ctx, e.pdf, path)
	case ".docx":
		return e.exec(ctx, e.docx, path)
	default:
		return "", fmt.Errorf("extract %s: unsupported format", path)
	}
}

// OCR recognizes text in a PDF with the OCR command.
func (e *Extractor) OCR(ctx context.Context, pdfPath string) (string, error) {
	if !e.OCRAvailable() {
		return "", fmt.Errorf("ocr: %w", ErrNoCommand)
	}
	return e.exec(ctx, e.ocr, pdfPath)
}

// Result is the text offered for an item and where it came from. Source is
// empty when no document yielded text.
type Result struct {
	Text   string
	Source string
}

// InitialText tries the item's documents in extraction order and returns the
// first non-empty text. Errors are logged and treated as empty output.
func (e *Extractor) InitialText(ctx context.Context, item catalog.Item) Result {
	for _, path := range item.ExtractionOrder() {
		text, err := e.Text(ctx, path)
		if err != nil {
			logging.WarnWithContext(e.logger, "text extraction failed", "extract_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "supply the content manually or try OCR"),
			)
			continue
		}
		if text != "" {
			return Result{Text: text, Source: path}
		}
	}
	return Result{}
}

func (e *Extractor) exec(ctx context.Context, cmd Command, path string) (string, error) {
	name, args, err := cmd.Expand(path)
	if err != nil {
		return "", err
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.logger.Debug("running extractor", logging.String("command", name), logging.String("path", path))
	out, err := e.run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
