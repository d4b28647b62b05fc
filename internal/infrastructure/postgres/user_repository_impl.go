package postgres

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

const tableUsers = "users"

var userColumns = []any{"id", "name", "last_name", "email", "phone", "password", "active", "register_date", "expiration_date"}

type UserRepository struct {
	q querier
}

func scanUser(row pgx.Row) (entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.LastName, &u.Email, &u.Phone, &u.Password,
		&u.Active, &u.RegisterDate, &u.ExpirationDate)
	return u, err
}

func selectUsers() *goqu.SelectDataset {
	return dialect().From(tableUsers).Select(userColumns...).Order(goqu.I("id").Asc())
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (name, last_name, email, phone, password, active, register_date, expiration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, u.Name, u.LastName, u.Email, u.Phone, u.Password, u.Active, u.RegisterDate, u.ExpirationDate)

	if err := row.Scan(&u.ID); err != nil {
		return translate("insert user", err)
	}
	return nil
}

func userIDIs(id int64) exp.BooleanExpression {
	return goqu.C("id").Eq(id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return queryOne(ctx, r.q, selectUsers().Where(userIDIs(id)), scanUser, domain.NotFound("user", id))
}

func lockUser(id int64) *goqu.SelectDataset {
	return selectUsers().Where(userIDIs(id)).ForUpdate(exp.Wait)
}

// GetForUpdate takes a row lock; only meaningful inside WithinTx.
func (r *UserRepository) GetForUpdate(ctx context.Context, id int64) (*entity.User, error) {
	return queryOne(ctx, r.q, lockUser(id), scanUser, domain.NotFound("user", id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ds := selectUsers().Where(goqu.C("email").Eq(email)).Limit(1)
	return queryOne(ctx, r.q, ds, scanUser, domain.NotFound("user", email))
}

func (r *UserRepository) List(ctx context.Context, p repository.Page) ([]entity.User, error) {
	return queryMany(ctx, r.q, paged(selectUsers(), p), scanUser)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return execAffecting(ctx, r.q, domain.NotFound("user", u.ID), `
		UPDATE users
		SET name = $1, last_name = $2, email = $3, phone = $4, active = $5, password = $6
		WHERE id = $7
	`, u.Name, u.LastName, u.Email, u.Phone, u.Active, u.Password, u.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.q, domain.NotFound("user", id), `DELETE FROM users WHERE id = $1`, id)
}

var _ repository.UserRepository = (*UserRepository)(nil)
