package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/repository"
	"github.com/oksasatya/go-library-records/pkg/response"
	"github.com/oksasatya/go-library-records/pkg/validation"
)

const (
	codeValidationFailed = "VALIDATION_FAILED"
	maxPageLimit         = 1000
)

type base struct {
	Logger *logrus.Logger
}

func statusFor(k domain.Kind) int {
	switch k {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindBusinessRule:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail maps a service error onto the response envelope. Store failures are
// logged and reported without detail.
func (b base) fail(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindStore {
		if b.Logger != nil {
			b.Logger.WithError(err).WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			}).Error("request failed")
		}
		response.Fail(c, http.StatusInternalServerError, "internal error", response.ErrorBody{Code: domain.CodeStoreFailure})
		return
	}
	msg := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	response.Fail(c, statusFor(kind), msg, response.ErrorBody{Code: domain.CodeOf(err)})
}

func invalid(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "invalid payload", response.ErrorBody{
		Code:    codeValidationFailed,
		Details: validation.ToDetails(err),
	})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		invalid(c, err)
		return false
	}
	return true
}

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "invalid path parameter", response.ErrorBody{
			Code:    codeValidationFailed,
			Details: map[string]string{name: "must be a positive integer"},
		})
		return 0, false
	}
	return id, true
}

type pageQuery struct {
	Skip  int `form:"skip" json:"skip" binding:"gte=0"`
	Limit int `form:"limit" json:"limit" binding:"omitempty,gte=1,lte=1000"`
}

func bindPage(c *gin.Context) (repository.Page, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, err)
		return repository.Page{}, false
	}
	return repository.Page{Skip: q.Skip, Limit: q.Limit}.Normalize(), true
}

func pageMeta(p repository.Page, count int) response.PageMeta {
	return response.PageMeta{Skip: p.Skip, Limit: p.Limit, Count: count}
}

// listMeta is the meta for unpaginated lookups.
func listMeta(count int) gin.H {
	return gin.H{"count": count}
}
