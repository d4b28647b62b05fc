package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
)

func TestCreateUser_SetsMembershipAndHashesPassword(t *testing.T) {
	f := newFixture(t)

	u := f.user(t, "Ada@Example.com ")

	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, u.Active)
	assert.Equal(t, fixedNow, u.RegisterDate)
	assert.Equal(t, fixedNow.Add(DefaultMembershipPeriod), u.ExpirationDate)
	assert.NotEqual(t, "secret", u.Password)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "a@x.com")

	_, err := f.users.CreateUser(ctx, CreateUserInput{Name: "B", LastName: "B", Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	all, err := f.users.ListUsers(ctx, repository.Page{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateUser_PasswordOverBcryptLimitIsValidationError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, CreateUserInput{Name: "B", LastName: "B", Email: "b@x.com", Password: strings.Repeat("語", 30)})
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	u := f.user(t, "a@x.com")
	long := strings.Repeat("x", 73)
	_, err = f.users.UpdateUser(ctx, u.ID, UpdateUserInput{Password: &long})
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.com")
	f.user(t, "b@x.com")

	t.Run("partial overwrite", func(t *testing.T) {
		phone := "777"
		inactive := false
		u, err := f.users.UpdateUser(ctx, a.ID, UpdateUserInput{Phone: &phone, Active: &inactive})
		require.NoError(t, err)
		assert.Equal(t, "777", u.Phone)
		assert.False(t, u.Active)
		assert.Equal(t, "Ada", u.Name)
	})

	t.Run("same email is allowed", func(t *testing.T) {
		email := "a@x.com"
		_, err := f.users.UpdateUser(ctx, a.ID, UpdateUserInput{Email: &email})
		assert.NoError(t, err)
	})

	t.Run("another user's email is rejected", func(t *testing.T) {
		email := "b@x.com"
		_, err := f.users.UpdateUser(ctx, a.ID, UpdateUserInput{Email: &email})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := f.users.UpdateUser(ctx, 999, UpdateUserInput{})
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, "USER_NOT_FOUND", domain.CodeOf(err))
	})
}

func TestGetUserByEmailAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.com")

	got, err := f.users.GetUserByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, f.users.DeleteUser(ctx, u.ID))
	_, err = f.users.GetUser(ctx, u.ID)
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(f.users.DeleteUser(ctx, u.ID)))
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "a@x.com")

	got, err := f.users.Authenticate(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.users.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.users.Authenticate(ctx, "nobody@x.com", "secret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
