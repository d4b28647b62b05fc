package repository

import "context"

// Store is the handle services receive. Repositories obtained from the Store
// passed to WithinTx's callback share that transaction; the transaction
// commits when fn returns nil and rolls back otherwise.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Books() BookRepository
	Copies() CopyRepository
	Loans() LoanRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
