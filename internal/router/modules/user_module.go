package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-library-records/internal/interface/http"
)

// UserModule wires borrower routes.
// Registration (POST /users) stays public so a first account can be created
// even when mutating routes require a token.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, guard gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Guard: guard}
}

func (m *UserModule) Name() string { return "users" }

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("", m.Handler.Create)

	guarded := users.Group("", m.Guard)
	{
		guarded.GET("", m.Handler.List)
		guarded.GET("/:id", m.Handler.Get)
		guarded.GET("/email/:email", m.Handler.GetByEmail)
		guarded.PATCH("/:id", m.Handler.Update)
		guarded.DELETE("/:id", m.Handler.Delete)
	}
}
