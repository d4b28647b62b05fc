package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/application"
	"github.com/oksasatya/go-library-records/pkg/response"
)

type LoanHandler struct {
	base
	Svc *application.LoanService
}

func NewLoanHandler(svc *application.LoanService, logger *logrus.Logger) *LoanHandler {
	return &LoanHandler{base: base{Logger: logger}, Svc: svc}
}

// Dates are RFC 3339. Omitted dates default to now and now plus the
// default loan period.
type createLoanRequest struct {
	UserID     int64      `json:"user_id" binding:"required,gt=0"`
	CopyID     int64      `json:"copy_id" binding:"required,gt=0"`
	LoanDate   *time.Time `json:"loan_date"`
	ReturnDate *time.Time `json:"return_date"`
}

type updateLoanRequest struct {
	LoanDate   *time.Time `json:"loan_date" binding:"required"`
	ReturnDate *time.Time `json:"return_date" binding:"required"`
}

func (h *LoanHandler) Create(c *gin.Context) {
	var req createLoanRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Svc.IssueLoan(c.Request.Context(), application.IssueLoanInput{
		UserID:     req.UserID,
		CopyID:     req.CopyID,
		LoanDate:   req.LoanDate,
		ReturnDate: req.ReturnDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, l, "loan created", nil)
}

func (h *LoanHandler) List(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	loans, err := h.Svc.ListLoans(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, loans, "loans", pageMeta(p, len(loans)))
}

func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.Svc.GetLoan(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, l, "loan", nil)
}

func (h *LoanHandler) ByUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	loans, err := h.Svc.LoansByUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, loans, "loans", listMeta(len(loans)))
}

func (h *LoanHandler) ActiveByUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	loans, err := h.Svc.ActiveLoansByUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, loans, "active loans", listMeta(len(loans)))
}

func (h *LoanHandler) ByCopy(c *gin.Context) {
	id, ok := pathID(c, "copy_id")
	if !ok {
		return
	}
	loans, err := h.Svc.LoansByCopy(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, loans, "loans", listMeta(len(loans)))
}

func (h *LoanHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateLoanRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Svc.UpdateLoan(c.Request.Context(), id, *req.LoanDate, *req.ReturnDate)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, l, "loan updated", nil)
}

func (h *LoanHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.Svc.ToggleLoanActive(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, l, "loan status updated", nil)
}

// Delete returns the loan's copy and removes the loan.
func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.Svc.DeleteLoan(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, l, "loan deleted", nil)
}
