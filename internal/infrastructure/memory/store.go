// Package memory keeps library records in-process. It backs tests and
// STORE_DRIVER=memory for local runs; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

type table[T any] struct {
	rows map[int64]T
	seq  int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{rows: make(map[int64]T, len(t.rows)), seq: t.seq}
	for k, v := range t.rows {
		c.rows[k] = v
	}
	return c
}

func (t *table[T]) nextID() int64 {
	t.seq++
	return t.seq
}

// filter returns matching rows ordered by id.
func (t *table[T]) filter(keep func(T) bool) []T {
	ids := make([]int64, 0, len(t.rows))
	for id, row := range t.rows {
		if keep == nil || keep(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) page(p repository.Page) []T {
	p = p.Normalize()
	all := t.filter(nil)
	if p.Skip >= len(all) {
		return []T{}
	}
	end := p.Skip + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[p.Skip:end]
}

type state struct {
	users      *table[entity.User]
	categories *table[entity.Category]
	books      *table[entity.Book]
	copies     *table[entity.Copy]
	loans      *table[entity.Loan]
}

func (s *state) clone() *state {
	return &state{
		users:      s.users.clone(),
		categories: s.categories.clone(),
		books:      s.books.clone(),
		copies:     s.copies.clone(),
		loans:      s.loans.clone(),
	}
}

type database struct {
	mu    sync.Mutex
	state *state
}

// Store implements repository.Store. Transactions run on a private snapshot
// that replaces the shared state on commit; the store lock is held for the
// whole transaction, so transactions are serialized.
type Store struct {
	db *database
	tx *state
}

func NewStore() *Store {
	return &Store{db: &database{state: &state{
		users:      newTable[entity.User](),
		categories: newTable[entity.Category](),
		books:      newTable[entity.Book](),
		copies:     newTable[entity.Copy](),
		loans:      newTable[entity.Loan](),
	}}}
}

func (s *Store) Users() repository.UserRepository          { return userRepo{s} }
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }
func (s *Store) Books() repository.BookRepository          { return bookRepo{s} }
func (s *Store) Copies() repository.CopyRepository         { return copyRepo{s} }
func (s *Store) Loans() repository.LoanRepository          { return loanRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	snapshot := s.db.state.clone()
	if err := fn(&Store{db: s.db, tx: snapshot}); err != nil {
		return err
	}
	s.db.state = snapshot
	return nil
}

// do runs fn against the transaction snapshot, or against the shared state
// under the store lock.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.state)
}

var _ repository.Store = (*Store)(nil)
