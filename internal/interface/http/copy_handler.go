package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/application"
	"github.com/oksasatya/go-library-records/pkg/response"
)

type CopyHandler struct {
	base
	Svc *application.CatalogService
}

func NewCopyHandler(svc *application.CatalogService, logger *logrus.Logger) *CopyHandler {
	return &CopyHandler{base: base{Logger: logger}, Svc: svc}
}

type createCopyRequest struct {
	BookID    int64 `json:"book_id" binding:"required,gt=0"`
	Available *bool `json:"available"`
	Attention bool  `json:"attention"`
}

type updateCopyRequest struct {
	BookID    *int64 `json:"book_id" binding:"omitempty,gt=0"`
	Available *bool  `json:"available"`
	Attention *bool  `json:"attention"`
}

func (h *CopyHandler) Create(c *gin.Context) {
	var req createCopyRequest
	if !bindJSON(c, &req) {
		return
	}
	cp, err := h.Svc.CreateCopy(c.Request.Context(), application.CopyInput{
		BookID:    req.BookID,
		Available: req.Available,
		Attention: req.Attention,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, cp, "copy created", nil)
}

func (h *CopyHandler) List(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	copies, err := h.Svc.ListCopies(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, copies, "copies", pageMeta(p, len(copies)))
}

func (h *CopyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cp, err := h.Svc.GetCopy(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, cp, "copy", nil)
}

func (h *CopyHandler) ByBook(c *gin.Context) {
	id, ok := pathID(c, "book_id")
	if !ok {
		return
	}
	copies, err := h.Svc.CopiesByBook(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, copies, "copies", listMeta(len(copies)))
}

func (h *CopyHandler) AvailableByBook(c *gin.Context) {
	id, ok := pathID(c, "book_id")
	if !ok {
		return
	}
	copies, err := h.Svc.AvailableCopiesByBook(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, copies, "available copies", listMeta(len(copies)))
}

func (h *CopyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateCopyRequest
	if !bindJSON(c, &req) {
		return
	}
	cp, err := h.Svc.UpdateCopy(c.Request.Context(), id, application.UpdateCopyInput{
		BookID:    req.BookID,
		Available: req.Available,
		Attention: req.Attention,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, cp, "copy updated", nil)
}

func (h *CopyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteCopy(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, gin.H{"id": id}, "copy deleted", nil)
}
