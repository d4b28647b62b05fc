package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/config"
	"github.com/oksasatya/go-library-records/internal/application"
	repo "github.com/oksasatya/go-library-records/internal/domain/repository"
	"github.com/oksasatya/go-library-records/pkg/helpers"
)

// Container holds the constructed components shared by the router modules.
// Infrastructure is built by the caller and handed in through Deps.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Store   repo.Store
	Redis   *redis.Client
	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager

	Users   *application.UserService
	Auth    *application.AuthService
	Catalog *application.CatalogService
	Loans   *application.LoanService
}

// Deps are the infrastructure handles a Container is built from.
// Publisher and Indexer may be nil.
type Deps struct {
	Store     repo.Store
	Redis     *redis.Client
	Publisher application.EventPublisher
	Indexer   application.BookIndexer
}

func New(cfg *config.Config, logger *logrus.Logger, d Deps) *Container {
	pub := d.Publisher
	if pub == nil {
		pub = application.NopPublisher{}
	}
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	users := application.NewUserService(d.Store, cfg.MembershipPeriod(), logger)
	rules := application.LoanRules{
		MaxActiveLoans:    cfg.MaxActiveLoans,
		DefaultLoanPeriod: cfg.DefaultLoanPeriod(),
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Store:   d.Store,
		Redis:   d.Redis,
		JWT:     jwt,
		Cookies: helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure),
		Users:   users,
		Auth:    application.NewAuthService(users, jwt, d.Redis, logger),
		Catalog: application.NewCatalogService(d.Store, d.Indexer, logger),
		Loans:   application.NewLoanService(d.Store, rules, pub, logger),
	}
}
