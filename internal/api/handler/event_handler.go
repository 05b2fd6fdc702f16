package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/pkg/response"
)

// ListEvents 今天及以后的活动，按日期升序
// @Summary 活动列表
// @Tags 活动
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Event}
// @Router /api/v1/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	items, err := h.eventService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}

// CreateEvent 创建活动
// @Summary 创建活动
// @Tags 活动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.EventForm true "活动信息"
// @Success 201 {object} response.Response{data=model.Event}
// @Failure 400 {object} response.Response
// @Router /api/v1/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	var form model.EventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ev, err := h.eventService.Create(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ev)
}

// UpdateEvent 更新活动
// @Summary 更新活动
// @Tags 活动
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "活动ID"
// @Param request body model.EventForm true "活动信息"
// @Success 200 {object} response.Response{data=model.Event}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/events/{id} [put]
func (h *Handler) UpdateEvent(c *gin.Context) {
	var form model.EventForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ev, err := h.eventService.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ev)
}

// DeleteEvent 删除活动；不存在也视为成功
// @Summary 删除活动
// @Tags 活动
// @Produce json
// @Security BearerAuth
// @Param id path string true "活动ID"
// @Success 200 {object} response.Response
// @Router /api/v1/events/{id} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
