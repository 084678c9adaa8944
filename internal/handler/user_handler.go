package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/internal/dto"
	"github.com/kindnest/kindnest-api/internal/middleware"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/response"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create registers the account for a freshly verified token. If the
// subject already has an account it is returned as-is, so the client can
// call this on every login.
func (h *UserHandler) Create(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		user, err := h.users.RecordLogin(c.Request.Context(), user)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"user": user})
		return
	}

	subject := middleware.TokenSubject(c)
	if subject == "" {
		response.Error(c, apperror.Unauthorized("token is missing a subject"))
		return
	}

	var req dto.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), subject, req.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"user": user})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	update := service.UserUpdate{
		DisplayName:  req.DisplayName,
		SelectedIcon: req.SelectedIcon,
		IconColours:  req.IconColours,
		RefreshRate:  req.RefreshRate,
		AutoRefresh:  req.AutoRefresh,
		PushEnabled:  req.PushEnabled,
		LoginCount:   req.LoginCount,
		Blocked:      req.Blocked,
		ReleaseDate:  req.ReleaseDate,
	}

	user, err := h.users.Update(c.Request.Context(), middleware.CurrentUser(c), id, update)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}

func (h *UserHandler) SendHug(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.SendHug(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}

func (h *UserHandler) GetBlocked(c *gin.Context) {
	page, err := h.users.GetBlocked(c.Request.Context(), parsePage(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"page": page})
}
