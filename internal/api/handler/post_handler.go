package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-api/internal/middleware"
	"github.com/d60-Lab/blog-api/internal/model"
	"github.com/d60-Lab/blog-api/internal/service"
	"github.com/d60-Lab/blog-api/pkg/response"
)

type createPostRequest struct {
	Title   string `json:"title" binding:"required,min=3,max=200"`
	Content string `json:"content" binding:"required,min=10"`
}

// updatePostRequest 局部更新：缺省字段保留原值
type updatePostRequest struct {
	Title   string `json:"title" binding:"omitempty,min=3,max=200"`
	Content string `json:"content" binding:"omitempty,min=10"`
}

// ListPosts 公开列表，最新在前
// @Summary 博文列表
// @Tags 博文
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	views := make([]model.PostView, len(posts))
	for i, p := range posts {
		views[i] = p.View()
	}
	response.SuccessWithCount(c, views, len(views))
}

// GetPost 公开详情；非法 ID 一律按不存在处理
// @Summary 博文详情
// @Tags 博文
// @Param id path string true "博文ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.postSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "Post not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, post.View())
}

// CreatePost 创建博文，属主为当前用户
// @Summary 创建博文
// @Tags 博文
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createPostRequest true "博文内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postSvc.Create(c.Request.Context(), identity.ID, req.Title, req.Content)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, "Post created successfully", post.View())
}

// UpdatePost 仅属主可改；先判存在（404）再判属主（403）
// @Summary 更新博文
// @Tags 博文
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "博文ID"
// @Param request body updatePostRequest true "更新内容"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postSvc.Update(c.Request.Context(), identity.ID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, "Post not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, "Not authorized to update this post")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.SuccessWithMessage(c, "Post updated successfully", post.View())
}

// DeletePost 仅属主可删
// @Summary 删除博文
// @Tags 博文
// @Security BearerAuth
// @Param id path string true "博文ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}
	if err := h.postSvc.Delete(c.Request.Context(), identity.ID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFound(c, "Post not found")
		case errors.Is(err, service.ErrNotOwner):
			response.Forbidden(c, "Not authorized to delete this post")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.SuccessWithMessage(c, "Post deleted successfully", nil)
}
