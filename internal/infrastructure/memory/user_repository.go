package memory

import (
	"context"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *entity.User) error {
	return r.s.do(ctx, func(st *state) error {
		u.ID = st.users.nextID()
		st.users.rows[u.ID] = *u
		return nil
	})
}

func (r userRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.s.do(ctx, func(st *state) error {
		u, ok := st.users.rows[id]
		if !ok {
			return domain.NotFound("user", id)
		}
		out = &u
		return nil
	})
	return out, err
}

// GetForUpdate needs no row lock here: transactions already hold the store lock.
func (r userRepo) GetForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.do(ctx, func(st *state) error {
		found := st.users.filter(func(u entity.User) bool { return u.Email == email })
		if len(found) == 0 {
			return domain.NotFound("user", email)
		}
		out = &found[0]
		return nil
	})
	return out, err
}

func (r userRepo) List(ctx context.Context, p repository.Page) ([]entity.User, error) {
	var out []entity.User
	err := r.s.do(ctx, func(st *state) error {
		out = st.users.page(p)
		return nil
	})
	return out, err
}

func (r userRepo) Update(ctx context.Context, u *entity.User) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.users.rows[u.ID]; !ok {
			return domain.NotFound("user", u.ID)
		}
		st.users.rows[u.ID] = *u
		return nil
	})
}

func (r userRepo) Delete(ctx context.Context, id int64) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.users.rows[id]; !ok {
			return domain.NotFound("user", id)
		}
		delete(st.users.rows, id)
		return nil
	})
}
