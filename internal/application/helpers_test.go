package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/infrastructure/memory"
	"github.com/oksasatya/go-library-records/pkg/helpers"
)

func init() { helpers.PasswordCost = bcrypt.MinCost }

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.LoanEvent
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, body.(entity.LoanEvent))
	return nil
}

func (p *recordingPublisher) types() []entity.LoanEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.LoanEventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store   *memory.Store
	users   *UserService
	catalog *CatalogService
	loans   *LoanService
	pub     *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	log := quietLogger()

	users := NewUserService(store, 0, log)
	users.now = func() time.Time { return fixedNow }
	loans := NewLoanService(store, LoanRules{}, pub, log)
	loans.now = func() time.Time { return fixedNow }

	return &fixture{
		store:   store,
		users:   users,
		catalog: NewCatalogService(store, nil, log),
		loans:   loans,
		pub:     pub,
	}
}

func (f *fixture) user(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), CreateUserInput{
		Name: "Ada", LastName: "Lovelace", Email: email, Phone: "555", Password: "secret",
	})
	require.NoError(t, err)
	return u
}

// copies creates one book with n available copies.
func (f *fixture) copies(t *testing.T, n int) []*entity.Copy {
	t.Helper()
	ctx := context.Background()
	cat, err := f.catalog.CreateCategory(ctx, "Fiction")
	require.NoError(t, err)
	book, err := f.catalog.CreateBook(ctx, BookInput{
		Title: "Dune", Author: "Herbert", Editorial: "Chilton", PubYear: 1965, Edition: 1, CategoryID: cat.ID,
	})
	require.NoError(t, err)

	out := make([]*entity.Copy, 0, n)
	for i := 0; i < n; i++ {
		c, err := f.catalog.CreateCopy(ctx, CopyInput{BookID: book.ID})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func day(d int) *time.Time {
	t := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

var errBroker = errors.New("broker down")
