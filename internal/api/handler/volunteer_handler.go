package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/pkg/response"
)

// CreateVolunteer 志愿者报名，同一邮箱只能报名一次
// @Summary 志愿者报名
// @Tags 志愿者
// @Accept json
// @Produce json
// @Param request body model.VolunteerForm true "报名信息"
// @Success 201 {object} response.Response{data=model.Volunteer}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/volunteers [post]
func (h *Handler) CreateVolunteer(c *gin.Context) {
	var form model.VolunteerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	v, err := h.volunteerService.Create(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, v)
}

// ListVolunteers 报名列表，最新在前
// @Summary 报名列表
// @Tags 志愿者
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Volunteer}
// @Failure 403 {object} response.Response
// @Router /api/v1/volunteers [get]
func (h *Handler) ListVolunteers(c *gin.Context) {
	list, err := h.volunteerService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// DeleteVolunteer 删除报名并释放邮箱
// @Summary 删除报名
// @Tags 志愿者
// @Produce json
// @Security BearerAuth
// @Param id path string true "志愿者ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/volunteers/{id} [delete]
func (h *Handler) DeleteVolunteer(c *gin.Context) {
	if err := h.volunteerService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
