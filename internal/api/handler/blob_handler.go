package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/nousrire-site/pkg/response"
)

// GetObject 下载图片，沿用写入时的 Content-Type 与 Cache-Control
// @Summary 下载图片
// @Tags 图片
// @Produce image/webp
// @Param object path string true "存储路径"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /o/{object} [get]
func (h *Handler) GetObject(c *gin.Context) {
	p := strings.TrimPrefix(c.Param("object"), "/")
	rc, meta, err := h.blobs.Open(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	headers := map[string]string{}
	if meta.CacheControl != "" {
		headers["Cache-Control"] = meta.CacheControl
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, headers)
}
