package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-library-records/internal/container"
	handlers "github.com/oksasatya/go-library-records/internal/interface/http"
	"github.com/oksasatya/go-library-records/internal/interface/middleware"
	"github.com/oksasatya/go-library-records/internal/router/modules"
)

// authGuard enforces a valid access token on mutating routes when the
// deployment requires it. Reads are always open.
func authGuard(c *container.Container) gin.HandlerFunc {
	return middleware.Optional(c.Config.AuthRequired, middleware.Auth(c.JWT, c.Redis))
}

// InitModules builds the handlers from the container and registers every
// feature module with the registry.
func InitModules(r *Registry, c *container.Container) {
	guard := authGuard(c)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Users, c.Logger), guard))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies, c.Logger), c.Redis))
	r.Add(modules.NewCatalogModule(
		handlers.NewCategoryHandler(c.Catalog, c.Logger),
		handlers.NewBookHandler(c.Catalog, c.Logger),
		handlers.NewCopyHandler(c.Catalog, c.Logger),
		guard,
	))
	r.Add(modules.NewLoanModule(handlers.NewLoanHandler(c.Loans, c.Logger), guard))
}
