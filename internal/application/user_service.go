package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	repo "github.com/oksasatya/go-library-records/internal/domain/repository"
	"github.com/oksasatya/go-library-records/pkg/helpers"
)

const DefaultMembershipPeriod = 30 * 24 * time.Hour

type UserService struct {
	Store            repo.Store
	Logger           *logrus.Logger
	MembershipPeriod time.Duration

	now func() time.Time
}

func NewUserService(store repo.Store, membership time.Duration, logger *logrus.Logger) *UserService {
	if membership <= 0 {
		membership = DefaultMembershipPeriod
	}
	return &UserService{Store: store, Logger: logger, MembershipPeriod: membership, now: time.Now}
}

type CreateUserInput struct {
	Name     string
	LastName string
	Email    string
	Phone    string
	Password string
	Active   *bool
}

// UpdateUserInput overwrites only the fields that are set.
type UpdateUserInput struct {
	Name     *string
	LastName *string
	Email    *string
	Phone    *string
	Password *string
	Active   *bool
}

func hashPassword(plain string) (string, error) {
	hash, err := helpers.HashPassword(plain)
	switch {
	case errors.Is(err, helpers.ErrPasswordTooLong):
		return "", domain.ErrPasswordTooLong
	case err != nil:
		return "", domain.StoreFailure("hash password", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a borrower. Registration is now and the membership
// expires MembershipPeriod later.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	registered := s.now().UTC()
	u := &entity.User{
		Name:           in.Name,
		LastName:       in.LastName,
		Email:          normalizeEmail(in.Email),
		Phone:          in.Phone,
		Password:       hash,
		Active:         true,
		RegisterDate:   registered,
		ExpirationDate: registered.Add(s.MembershipPeriod),
	}
	if in.Active != nil {
		u.Active = *in.Active
	}

	err = s.Store.WithinTx(ctx, func(tx repo.Store) error {
		if err := ensureEmailFree(ctx, tx, u.Email, 0); err != nil {
			return err
		}
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user created")
	}
	return u, nil
}

// ensureEmailFree fails with ErrDuplicateEmail when another user (not self)
// already owns email.
func ensureEmailFree(ctx context.Context, tx repo.Store, email string, self int64) error {
	existing, err := tx.Users().GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != self:
		return domain.ErrDuplicateEmail
	case err == nil, domain.IsNotFound(err):
		return nil
	default:
		return err
	}
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return s.Store.Users().GetByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.Store.Users().GetByEmail(ctx, normalizeEmail(email))
}

func (s *UserService) ListUsers(ctx context.Context, p repo.Page) ([]entity.User, error) {
	return s.Store.Users().List(ctx, p)
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	var hash string
	if in.Password != nil {
		h, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var out *entity.User
	err := s.Store.WithinTx(ctx, func(tx repo.Store) error {
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Email != nil {
			email := normalizeEmail(*in.Email)
			if email != u.Email {
				if err := ensureEmailFree(ctx, tx, email, u.ID); err != nil {
					return err
				}
			}
			u.Email = email
		}
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		if in.Active != nil {
			u.Active = *in.Active
		}
		if hash != "" {
			u.Password = hash
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.Store.Users().Delete(ctx, id)
}

// Authenticate checks email and password. Unknown email and wrong password
// fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Store.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}
