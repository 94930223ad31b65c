package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-api/internal/middleware"
	"github.com/d60-Lab/blog-api/internal/model"
	"github.com/d60-Lab/blog-api/internal/service"
	"github.com/d60-Lab/blog-api/pkg/response"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authPayload 认证成功响应体：令牌 + 用户
type authPayload struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 注册新用户并直接签发令牌
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "Email already registered")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, "User registered successfully", authPayload{Token: token, User: user})
}

// Login 邮箱密码登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Login successful", authPayload{Token: token, User: user})
}

// Logout 无状态令牌，服务端无事可做，仅确认
// @Summary 退出登录
// @Tags 认证
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	response.SuccessWithMessage(c, "Logged out successfully", nil)
}

// Me 返回当前用户
// @Summary 当前用户信息
// @Tags 认证
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}
	user, err := h.authSvc.GetUser(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, "Not authorized")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, user)
}
