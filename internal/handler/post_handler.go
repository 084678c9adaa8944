package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/internal/dto"
	"github.com/kindnest/kindnest-api/internal/middleware"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/response"
)

type PostHandler struct {
	posts  service.PostService
	search service.SearchService
}

func NewPostHandler(posts service.PostService, search service.SearchService) *PostHandler {
	return &PostHandler{posts: posts, search: search}
}

// Home serves the landing page lists: the newest posts and the ones most
// in need of attention.
func (h *PostHandler) Home(c *gin.Context) {
	recent, suggested, err := h.posts.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"new_items":       recent,
		"suggested_items": suggested,
	})
}

func (h *PostHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	page := req.Page
	if page == 0 {
		page = 1
	}

	results, err := h.search.Search(c.Request.Context(), req.Query, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"posts": results.Posts, "users": results.Users})
}

func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.CurrentUser(c), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdatePostRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), middleware.CurrentUser(c), id, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.posts.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": id})
}

func (h *PostHandler) SendHug(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := h.posts.SendHug(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"post": post})
}

func (h *PostHandler) GetByUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.posts.GetByUser(c.Request.Context(), userID, parsePage(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"page": page})
}

func (h *PostHandler) DeleteAllByUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	deleted, err := h.posts.DeleteAllByUser(c.Request.Context(), middleware.CurrentUser(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": deleted})
}
