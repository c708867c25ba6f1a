package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"archivist/internal/catalog"
	"archivist/internal/config"
	"archivist/internal/extract"
	"archivist/internal/ledger"
	"archivist/internal/logging"
	"archivist/internal/services"
	"archivist/internal/wordpress"
)

// Publisher creates CMS posts.
type Publisher interface {
	CreatePost(ctx context.Context, req wordpress.PostRequest) (wordpress.PostResult, error)
}

// TextSource produces the initial text offered for an item.
type TextSource interface {
	InitialText(ctx context.Context, item catalog.Item) extract.Result
}

// Session is one operator run over the archive.
type Session struct {
	id        string
	catalog   *catalog.Cache
	store     ledger.Store
	publisher Publisher
	text      TextSource
	logger    *slog.Logger

	lockMu sync.Mutex
	lock   *ledger.WriterLock
}

// Option customizes a session.
type Option func(*Session)

// WithPublisher sets the CMS client used by Publish and Draft.
func WithPublisher(p Publisher) Option {
	return func(s *Session) { s.publisher = p }
}

// WithTextSource sets the extractor used by Next.
func WithTextSource(t TextSource) Option {
	return func(s *Session) { s.text = t }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(s *Session) {
		if strings.TrimSpace(id) != "" {
			s.id = id
		}
	}
}

// NewSession wires a session over an existing catalog cache and ledger store.
func NewSession(cat *catalog.Cache, store ledger.Store, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		catalog: cat,
		store:   store,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "migration")
	return s
}

// Open builds a session from configuration. The CMS client is attached only
// when the wordpress section is complete.
func Open(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	store, err := ledger.Open(cfg)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithLogger(logger),
		WithTextSource(extract.New(cfg.Extract, extract.WithLogger(logger))),
	}
	if cfg.WordPressReady() == nil {
		opts = append(opts, WithPublisher(wordpress.NewFromConfig(cfg, logger)))
	}
	cat := catalog.NewCache(cfg.Paths.SourceRoot, catalog.Options{Prefix: cfg.Catalog.Prefix, Logger: logger})
	return NewSession(cat, store, opts...), nil
}

// ID returns the session identifier attached to log records and contexts.
func (s *Session) ID() string { return s.id }

// Catalog exposes the cached catalog.
func (s *Session) Catalog() *catalog.Cache { return s.catalog }

// Ledger exposes the progress ledger.
func (s *Session) Ledger() ledger.Store { return s.store }

// Close releases the writer lock, if held, and closes the ledger.
func (s *Session) Close() error {
	s.lockMu.Lock()
	lockErr := s.lock.Release()
	s.lock = nil
	s.lockMu.Unlock()
	return errors.Join(lockErr, s.store.Close())
}

func (s *Session) context(ctx context.Context, op, groupKey string) context.Context {
	ctx = services.WithSessionID(ctx, s.id)
	ctx = services.WithOperation(ctx, op)
	if groupKey != "" {
		ctx = services.WithGroupKey(ctx, groupKey)
	}
	return ctx
}

// append takes the writer lock on first use, then records row.
func (s *Session) append(ctx context.Context, row ledger.Row) error {
	s.lockMu.Lock()
	if s.lock == nil {
		lock, err := ledger.AcquireWriter(s.store.Path())
		if err != nil {
			s.lockMu.Unlock()
			return err
		}
		s.lock = lock
	}
	s.lockMu.Unlock()

	if err := s.store.Append(ctx, row); err != nil {
		return fmt.Errorf("append ledger row for %s: %w", row.GroupKey, err)
	}
	return nil
}
