// Package pages keeps the pages of one lesson. Every page is an independent
// board with its own history; switching pages saves the outgoing page to the
// store.
package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/lessonboard/internal/board"
	"github.com/example/lessonboard/internal/logging"
	"github.com/example/lessonboard/internal/store"
)

// Store is the persistence a Book needs. *store.Store implements it.
type Store interface {
	SavePage(ctx context.Context, lesson string, idx int, data []byte) error
	LoadPage(ctx context.Context, lesson string, idx int) ([]byte, error)
	ListPages(ctx context.Context, lesson string) ([]store.PageInfo, error)
}

// Factory creates a blank page.
type Factory func() (*board.Board, error)

// Book is the set of pages of one lesson. It is used from the host's event
// loop.
type Book struct {
	lesson  string
	store   Store
	factory Factory

	boards  map[int]*board.Board
	current int
}

// NewBook opens lesson and activates page 0, loading it from st when it has
// been stored before. A nil store keeps pages in memory only.
func NewBook(ctx context.Context, lesson string, st Store, factory Factory) (*Book, error) {
	if factory == nil {
		factory = func() (*board.Board, error) { return board.New() }
	}
	bk := &Book{lesson: lesson, store: st, factory: factory, boards: make(map[int]*board.Board)}
	if _, err := bk.open(ctx, 0); err != nil {
		return nil, err
	}
	return bk, nil
}

// Lesson returns the lesson name.
func (bk *Book) Lesson() string { return bk.lesson }

// Index returns the active page index.
func (bk *Book) Index() int { return bk.current }

// Current returns the active page.
func (bk *Book) Current() *board.Board { return bk.boards[bk.current] }

// Switch saves the active page and activates page n. A page visited before
// in this session keeps its history; otherwise it is loaded from the store,
// or starts blank when nothing was stored.
func (bk *Book) Switch(ctx context.Context, n int) (*board.Board, error) {
	if n < 0 {
		return nil, fmt.Errorf("switch page: invalid index %d", n)
	}
	if n == bk.current {
		return bk.Current(), nil
	}
	if err := bk.Flush(ctx); err != nil {
		return nil, fmt.Errorf("switch page: %w", err)
	}
	b, err := bk.open(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("switch page: %w", err)
	}
	logging.Logger().Info("page switched", "lesson", bk.lesson, "page", n)
	return b, nil
}

func (bk *Book) open(ctx context.Context, n int) (*board.Board, error) {
	if b, ok := bk.boards[n]; ok {
		bk.current = n
		return b, nil
	}
	b, err := bk.factory()
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	if bk.store != nil {
		data, err := bk.store.LoadPage(ctx, bk.lesson, n)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if err := b.Clear(); err != nil {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
		case err != nil:
			return nil, fmt.Errorf("page %d: %w", n, err)
		default:
			if err := b.LoadImage(data); err != nil {
				return nil, fmt.Errorf("page %d: %w", n, err)
			}
		}
	}
	bk.boards[n] = b
	bk.current = n
	return b, nil
}

// Flush saves the active page.
func (bk *Book) Flush(ctx context.Context) error {
	if bk.store == nil {
		return nil
	}
	data, err := bk.Current().ExportImage()
	if err != nil {
		return err
	}
	if err := bk.store.SavePage(ctx, bk.lesson, bk.current, data); err != nil {
		return err
	}
	logging.Logger().Debug("page saved", "lesson", bk.lesson, "page", bk.current, "bytes", len(data))
	return nil
}

// Pages returns the indexes stored for the lesson.
func (bk *Book) Pages(ctx context.Context) ([]int, error) {
	if bk.store == nil {
		return nil, nil
	}
	infos, err := bk.store.ListPages(ctx, bk.lesson)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(infos))
	for i, p := range infos {
		out[i] = p.Index
	}
	return out, nil
}
