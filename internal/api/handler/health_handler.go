package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-api/pkg/response"
)

// Root 存活探针
// @Summary 服务存活
// @Tags 健康
// @Produce json
// @Success 200 {object} response.Response
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	response.SuccessWithMessage(c, "Blog API is running", nil)
}

// Health 健康检查
// @Summary 健康检查
// @Tags 健康
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	response.SuccessWithMessage(c, "Server is healthy", gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
