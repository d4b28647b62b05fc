package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/application"
	"github.com/oksasatya/go-library-records/pkg/response"
)

type CategoryHandler struct {
	base
	Svc *application.CatalogService
}

func NewCategoryHandler(svc *application.CatalogService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{base: base{Logger: logger}, Svc: svc}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.Svc.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, cat, "category created", nil)
}

func (h *CategoryHandler) List(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	cats, err := h.Svc.ListCategories(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, cats, "categories", pageMeta(p, len(cats)))
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cat, err := h.Svc.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, cat, "category", nil)
}

func (h *CategoryHandler) GetByName(c *gin.Context) {
	cat, err := h.Svc.GetCategoryByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, cat, "category", nil)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.Svc.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, cat, "category updated", nil)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, gin.H{"id": id}, "category deleted", nil)
}
