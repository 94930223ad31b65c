package handler

import (
	"github.com/d60-Lab/blog-api/internal/service"
)

// Handler 聚合各业务服务，供路由注册
type Handler struct {
	authSvc service.AuthService
	postSvc service.PostService
}

func NewHandler(authSvc service.AuthService, postSvc service.PostService) *Handler {
	return &Handler{authSvc: authSvc, postSvc: postSvc}
}
