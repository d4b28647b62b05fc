package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-library-records/internal/interface/http"
)

type LoanModule struct {
	Handler *handlers.LoanHandler
	Guard   gin.HandlerFunc
}

func NewLoanModule(h *handlers.LoanHandler, guard gin.HandlerFunc) *LoanModule {
	return &LoanModule{Handler: h, Guard: guard}
}

func (m *LoanModule) Name() string { return "loans" }

func (m *LoanModule) Register(rg *gin.RouterGroup) {
	loans := rg.Group("/loans", m.Guard)
	{
		loans.POST("", m.Handler.Create)
		loans.GET("", m.Handler.List)
		loans.GET("/:id", m.Handler.Get)
		loans.GET("/user/:user_id", m.Handler.ByUser)
		loans.GET("/user/:user_id/active", m.Handler.ActiveByUser)
		loans.GET("/copy/:copy_id", m.Handler.ByCopy)
		loans.PATCH("/:id", m.Handler.Update)
		loans.PATCH("/:id/status", m.Handler.Toggle)
		loans.DELETE("/:id", m.Handler.Delete)
	}
}
