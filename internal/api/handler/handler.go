package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/nousrire-site/internal/blob"
	"github.com/d60-Lab/nousrire-site/internal/service"
	"github.com/d60-Lab/nousrire-site/pkg/response"
)

// BlobReader 读取已存储的图片
type BlobReader interface {
	Open(ctx context.Context, p string) (io.ReadCloser, blob.Metadata, error)
}

// Handler 汇总各业务的 HTTP 入口
type Handler struct {
	newsService      service.NewsService
	eventService     service.EventService
	volunteerService service.VolunteerService
	blobs            BlobReader
	maxUploadBytes   int64
}

func NewHandler(news service.NewsService, events service.EventService, volunteers service.VolunteerService, blobs BlobReader, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		newsService:      news,
		eventService:     events,
		volunteerService: volunteers,
		blobs:            blobs,
		maxUploadBytes:   maxUploadBytes,
	}
}

// Health 存活检查
// @Summary 存活检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
