package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/internal/application"
	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/response"
	"github.com/oksasatya/jsonplaceholder-api/pkg/validation"
)

type UserService interface {
	List(ctx context.Context) ([]*entity.User, error)
	Get(ctx context.Context, id int64) (*entity.User, error)
	Create(ctx context.Context, in application.CreateUserInput) (*entity.User, error)
	Update(ctx context.Context, id int64, in application.UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type UserHandler struct {
	Svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	var in application.CreateUserInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in application.UpdateUserInput
	if !bindJSON(c, &in) {
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success[any](c, http.StatusNoContent, nil)
}

type searchQuery struct {
	Q    string `form:"q" json:"q" binding:"required"`
	Size int    `form:"size" json:"size" binding:"omitempty,min=1,max=50"`
}

func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(apperror.BadRequest(msgValidationFailed, validation.ToDetails(err)))
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, hits)
}

func (h *UserHandler) Test(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Users API is working!"})
}
