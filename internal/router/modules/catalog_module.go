package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-library-records/internal/interface/http"
)

// CatalogModule wires categories, books and copies.
type CatalogModule struct {
	Categories *handlers.CategoryHandler
	Books      *handlers.BookHandler
	Copies     *handlers.CopyHandler
	Guard      gin.HandlerFunc
}

func NewCatalogModule(cat *handlers.CategoryHandler, books *handlers.BookHandler, copies *handlers.CopyHandler, guard gin.HandlerFunc) *CatalogModule {
	return &CatalogModule{Categories: cat, Books: books, Copies: copies, Guard: guard}
}

func (m *CatalogModule) Name() string { return "catalog" }

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	cats := rg.Group("/categories", m.Guard)
	{
		cats.POST("", m.Categories.Create)
		cats.GET("", m.Categories.List)
		cats.GET("/:id", m.Categories.Get)
		cats.GET("/name/:name", m.Categories.GetByName)
		cats.PATCH("/:id", m.Categories.Update)
		cats.DELETE("/:id", m.Categories.Delete)
	}

	books := rg.Group("/books", m.Guard)
	{
		books.POST("", m.Books.Create)
		books.GET("", m.Books.List)
		books.GET("/search", m.Books.Search)
		books.GET("/:id", m.Books.Get)
		books.GET("/category/:category_id", m.Books.ByCategory)
		books.GET("/author/:author", m.Books.ByAuthor)
		books.GET("/editorial/:editorial", m.Books.ByEditorial)
		books.PATCH("/:id", m.Books.Update)
		books.DELETE("/:id", m.Books.Delete)
	}

	copies := rg.Group("/copies", m.Guard)
	{
		copies.POST("", m.Copies.Create)
		copies.GET("", m.Copies.List)
		copies.GET("/:id", m.Copies.Get)
		copies.GET("/book/:book_id", m.Copies.ByBook)
		copies.GET("/book/:book_id/available", m.Copies.AvailableByBook)
		copies.PATCH("/:id", m.Copies.Update)
		copies.DELETE("/:id", m.Copies.Delete)
	}
}
