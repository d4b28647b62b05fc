package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-library-records/internal/application"
	"github.com/oksasatya/go-library-records/pkg/response"
)

type UserHandler struct {
	base
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{base: base{Logger: logger}, Svc: svc}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	LastName string `json:"last_name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Password string `json:"password" binding:"required,pwd"`
	Active   *bool  `json:"active"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,notblank,max=100"`
	LastName *string `json:"last_name" binding:"omitempty,notblank,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Password *string `json:"password" binding:"omitempty,pwd"`
	Active   *bool   `json:"active"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), application.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Active:   req.Active,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, u, "user created", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	users, err := h.Svc.ListUsers(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.List(c, http.StatusOK, users, "users", pageMeta(p, len(users)))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Svc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	u, err := h.Svc.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), id, application.UpdateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Active:   req.Active,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, gin.H{"id": id}, "user deleted", nil)
}
