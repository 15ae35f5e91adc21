package rbac

import (
	"net/http"
	"strings"

	"go-hrportal/internal/shared/apperror"
	"go-hrportal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Enforce answers whether the caller's role may perform the given action.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, err.Error())
		return
	}

	role := c.GetString("role")
	allowed, err := h.service.Enforce(role, strings.TrimSpace(req.Resource), strings.TrimSpace(req.Action))
	if err != nil {
		internal := apperror.ErrInternal
		response.Error(c, internal.HTTPStatus, internal.Code, internal.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

func (h *Handler) MyPermissions(c *gin.Context) {
	role := c.GetString("role")
	perms, err := h.service.Permissions(role)
	if err != nil {
		h.logger.Error("list permissions failed", zap.String("role", role), zap.Error(err))
		internal := apperror.ErrInternal
		response.Error(c, internal.HTTPStatus, internal.Code, internal.Message, nil)
		return
	}

	out := PermissionsResponse{Role: role, Permissions: make([]PermissionResponse, len(perms))}
	for i, p := range perms {
		out.Permissions[i] = PermissionResponse{Resource: p.Resource, Action: p.Action}
	}
	response.Success(c, http.StatusOK, out, nil)
}
