package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/pkg/response"
)

type createNewsRequest struct {
	Title   string `form:"title" binding:"required"`
	Content string `form:"content" binding:"required"`
}

// ListNews 公开新闻列表，最新在前
// @Summary 新闻列表
// @Tags 新闻
// @Produce json
// @Success 200 {object} response.Response{data=[]model.NewsItem}
// @Failure 500 {object} response.Response
// @Router /api/v1/news [get]
func (h *Handler) ListNews(c *gin.Context) {
	items, err := h.newsService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// GetNews 查询单条新闻
// @Summary 新闻详情
// @Tags 新闻
// @Produce json
// @Security BearerAuth
// @Param id path string true "新闻ID"
// @Success 200 {object} response.Response{data=model.NewsItem}
// @Failure 404 {object} response.Response
// @Router /api/v1/news/{id} [get]
func (h *Handler) GetNews(c *gin.Context) {
	item, err := h.newsService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, item)
}

// CreateNews 发布新闻；超出保留上限时淘汰最旧的
// @Summary 发布新闻
// @Tags 新闻
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "标题"
// @Param content formData string true "正文"
// @Param image formData file false "配图"
// @Success 201 {object} response.Response{data=model.NewsItem}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/news [post]
func (h *Handler) CreateNews(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	var req createNewsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	img, err := h.readImage(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.newsService.Create(c.Request.Context(), model.NewsForm{Title: req.Title, Content: req.Content, Image: img})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// readImage 读取可选的 image 字段
func (h *Handler) readImage(c *gin.Context) (*model.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if fh.Size > h.maxUploadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", h.maxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", h.maxUploadBytes)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &model.ImageUpload{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

// DeleteNews 删除新闻及其图片
// @Summary 删除新闻
// @Tags 新闻
// @Produce json
// @Security BearerAuth
// @Param id path string true "新闻ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/news/{id} [delete]
func (h *Handler) DeleteNews(c *gin.Context) {
	if err := h.newsService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
