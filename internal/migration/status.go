package migration

import (
	"context"
	"fmt"

	"archivist/internal/catalog"
	"archivist/internal/ledger"
	"archivist/internal/logging"
)

// Progress summarizes the archive against the ledger.
type Progress struct {
	Total     int
	Done      int
	Remaining int
	Next      *catalog.Item
}

// Progress counts catalog items with and without done rows. Done rows for
// group keys no longer in the catalog are not counted.
func (s *Session) Progress(ctx context.Context) (Progress, error) {
	done, err := s.store.DoneSet(ctx)
	if err != nil {
		return Progress{}, fmt.Errorf("read done set: %w", err)
	}
	items := s.catalog.Items()
	p := Progress{Total: len(items)}
	for _, item := range items {
		if done.Contains(item.GroupKey) {
			p.Done++
			continue
		}
		if p.Next == nil {
			next := item
			p.Next = &next
		}
	}
	p.Remaining = p.Total - p.Done
	return p, nil
}

// NextItem is the next undone item and the text offered for it.
type NextItem struct {
	Item       catalog.Item
	Text       string
	TextSource string
}

// Next returns the first catalog item without a done row. finished is true
// when every item is done.
func (s *Session) Next(ctx context.Context) (next NextItem, finished bool, err error) {
	ctx = s.context(ctx, "next", "")
	done, err := s.store.DoneSet(ctx)
	if err != nil {
		return NextItem{}, false, fmt.Errorf("read done set: %w", err)
	}
	item, ok := s.catalog.Next(done)
	if !ok {
		logging.WithContext(ctx, s.logger).Info("all items done", logging.Int("done", len(done)))
		return NextItem{}, true, nil
	}
	next = NextItem{Item: item}
	if s.text != nil {
		res := s.text.InitialText(s.context(ctx, "next", item.GroupKey), item)
		next.Text, next.TextSource = res.Text, res.Source
	}
	logging.WithContext(s.context(ctx, "next", item.GroupKey), s.logger).Debug("next item",
		logging.String("sources", item.Sources().String()),
		logging.Int("text_length", len(next.Text)),
	)
	return next, false, nil
}

// DoneSet exposes the ledger's done set.
func (s *Session) DoneSet(ctx context.Context) (ledger.DoneSet, error) {
	return s.store.DoneSet(ctx)
}
