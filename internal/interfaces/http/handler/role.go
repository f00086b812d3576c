package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/tutorhub/backend/internal/application/identity"
	"github.com/tutorhub/backend/internal/domain/identity"
)

// RoleHandler handles role management HTTP requests
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// CreateRoleRequest represents the request body for creating a role
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"omitempty,max=500"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,min=1"`
}

// UpdateRoleRequest represents the request body for updating a role
type UpdateRoleRequest struct {
	Description *string  `json:"description" binding:"omitempty,max=500"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,min=1"`
}

// Create godoc
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body CreateRoleRequest true "Role details"
// @Success      201 {object} dto.Response{data=identityapp.RoleDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), identityapp.CreateRoleInput{
		CenterID:    centerID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, role)
}

// List godoc
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identityapp.RoleDTO}
// @Security     BearerAuth
// @Router       /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return
	}

	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.roleService.List(c.Request.Context(), centerID, query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.RoleDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	centerID, roleID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	role, err := h.roleService.Get(c.Request.Context(), centerID, roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Update godoc
// @Summary      Update a role's description and permissions
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body UpdateRoleRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=identityapp.RoleDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	centerID, roleID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), identityapp.UpdateRoleInput{
		CenterID:    centerID,
		ID:          roleID,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Delete godoc
// @Summary      Delete a custom role
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	centerID, roleID, ok := h.centerAndID(c)
	if !ok {
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), centerID, roleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListPermissions godoc
// @Summary      List all known permission strings
// @Tags         roles
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Security     BearerAuth
// @Router       /roles/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	h.Success(c, []string{
		identity.PermissionStudentsRead,
		identity.PermissionStudentsWrite,
		identity.PermissionTeachersRead,
		identity.PermissionTeachersWrite,
		identity.PermissionClassesRead,
		identity.PermissionClassesWrite,
		identity.PermissionAttendanceRead,
		identity.PermissionAttendanceWrite,
		identity.PermissionCodesManage,
		identity.PermissionNotificationLog,
		identity.PermissionHomeworkManage,
		identity.PermissionAssessManage,
		identity.PermissionBillingManage,
		identity.PermissionUsersManage,
		identity.PermissionCenterManage,
	})
}

func (h *RoleHandler) centerAndID(c *gin.Context) (centerID, id uuid.UUID, ok bool) {
	centerID, err := getCenterID(c)
	if err != nil {
		h.Unauthorized(c, "Center identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err = uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid role ID")
		return uuid.Nil, uuid.Nil, false
	}
	return centerID, id, true
}
