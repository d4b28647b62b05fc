package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/application"
	"github.com/oksasatya/go-library-records/pkg/response"
)

type BookHandler struct {
	base
	Svc *application.CatalogService
}

func NewBookHandler(svc *application.CatalogService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{base: base{Logger: logger}, Svc: svc}
}

type createBookRequest struct {
	Title      string `json:"title" binding:"required,notblank,max=200"`
	Author     string `json:"author" binding:"required,notblank,max=100"`
	Editorial  string `json:"editorial" binding:"required,notblank,max=100"`
	PubYear    int    `json:"pub_year" binding:"required,pubyear"`
	Edition    int    `json:"edition" binding:"required,min=1"`
	CategoryID int64  `json:"category_id" binding:"required,gt=0"`
}

type updateBookRequest struct {
	Title      *string `json:"title" binding:"omitempty,notblank,max=200"`
	Author     *string `json:"author" binding:"omitempty,notblank,max=100"`
	Editorial  *string `json:"editorial" binding:"omitempty,notblank,max=100"`
	PubYear    *int    `json:"pub_year" binding:"omitempty,pubyear"`
	Edition    *int    `json:"edition" binding:"omitempty,min=1"`
	CategoryID *int64  `json:"category_id" binding:"omitempty,gt=0"`
}

type searchQuery struct {
	Q    string `form:"q" json:"q" binding:"required,notblank"`
	Size int    `form:"size" json:"size" binding:"omitempty,gte=1,lte=50"`
}

func (h *BookHandler) Create(c *gin.Context) {
	var req createBookRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.CreateBook(c.Request.Context(), application.BookInput{
		Title:      req.Title,
		Author:     req.Author,
		Editorial:  req.Editorial,
		PubYear:    req.PubYear,
		Edition:    req.Edition,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, b, "book created", nil)
}

func (h *BookHandler) List(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	books, err := h.Svc.ListBooks(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, books, "books", pageMeta(p, len(books)))
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.Svc.GetBook(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, b, "book", nil)
}

func (h *BookHandler) ByCategory(c *gin.Context) {
	id, ok := pathID(c, "category_id")
	if !ok {
		return
	}
	books, err := h.Svc.BooksByCategory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, books, "books", listMeta(len(books)))
}

func (h *BookHandler) ByAuthor(c *gin.Context) {
	books, err := h.Svc.BooksByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, books, "books", listMeta(len(books)))
}

func (h *BookHandler) ByEditorial(c *gin.Context) {
	books, err := h.Svc.BooksByEditorial(c.Request.Context(), c.Param("editorial"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, books, "books", listMeta(len(books)))
}

func (h *BookHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return
	}
	books, err := h.Svc.SearchBooks(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, books, "books", listMeta(len(books)))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateBookRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.UpdateBook(c.Request.Context(), id, application.UpdateBookInput{
		Title:      req.Title,
		Author:     req.Author,
		Editorial:  req.Editorial,
		PubYear:    req.PubYear,
		Edition:    req.Edition,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, b, "book updated", nil)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteBook(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, gin.H{"id": id}, "book deleted", nil)
}
