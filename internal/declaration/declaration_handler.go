package declaration

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	declarationerrors "go-hrportal/internal/declaration/errors"
	"go-hrportal/internal/shared/apperror"
	"go-hrportal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

// NewHandler builds the HTTP handler. rdb may be nil when idempotent
// replay is disabled.
func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("declaration.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("declaration.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func getActor(c *gin.Context) Actor {
	userID := c.GetString("user_id")
	if userID == "" {
		userID = c.GetString("user_id_validated")
	}
	return Actor{
		UserID:     userID,
		EmployeeID: c.GetString("employee_id"),
		Role:       c.GetString("role"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("declaration request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, op string, err error) {
	h.logger.Warn("http "+op+" validation failed", zap.Error(err))
	appErr := apperror.MapValidationError(err)
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", appErr.Message, err.Error())
}

// releaseIdempotency drops the in-flight lock taken by the idempotency
// middleware and, on success, caches the response for replay.
func (h *Handler) releaseIdempotency(c *gin.Context, status int, resp any) {
	if h.rdb == nil {
		return
	}
	ctx := c.Request.Context()
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		defer h.rdb.Del(ctx, lk)
	}
	if resp == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	payload, err := json.Marshal(gin.H{"status": status, "data": resp})
	if err != nil {
		return
	}
	if err := h.rdb.Set(ctx, ck, payload, idempotencyTTL).Err(); err != nil {
		h.logger.Warn("idempotency cache write failed", zap.String("key", ck), zap.Error(err))
	}
}

func (h *Handler) Save(c *gin.Context) {
	actor := getActor(c)
	h.logger.Debug("http save declaration", zap.String("actor_id", actor.UserID), zap.String("role", actor.Role))

	var req SaveDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeBindError(c, "save declaration", err)
		return
	}

	resp, created, err := h.service.Save(c.Request.Context(), actor, req)
	if err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.releaseIdempotency(c, status, resp)
	response.Success(c, status, resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	actor := getActor(c)

	var req SubmitDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeBindError(c, "submit declaration", err)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, http.StatusOK, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Query("employeeId")
	financialYear := c.Query("financialYear")
	if employeeID == "" || financialYear == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "employeeId and financialYear are required", nil)
		return
	}

	resp, err := h.service.GetByEmployee(c.Request.Context(), getActor(c), employeeID, financialYear)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	var req ListDeclarationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, "list declarations", err)
		return
	}

	result, err := h.service.List(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewCursorMeta(len(result.Items), result.Limit, result.NextCursor)
	response.Success(c, http.StatusOK, result.Items, &meta)
}

func (h *Handler) Approve(c *gin.Context) {
	var req ReviewDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "approve declaration", err)
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req ReviewDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, "reject declaration", err)
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), getActor(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) UploadDocument(c *gin.Context) {
	id := c.Param("id")
	actor := getActor(c)

	if bodyID := c.PostForm("declarationId"); bodyID != "" && bodyID != id {
		h.releaseIdempotency(c, 0, nil)
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "declarationId does not match the path", nil)
		return
	}

	fh, err := c.FormFile("document")
	if err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeServiceError(c, declarationerrors.ErrDocumentRequired)
		return
	}
	if fh.Size > MaxDocumentSize {
		h.releaseIdempotency(c, 0, nil)
		h.writeServiceError(c, declarationerrors.ErrDocumentTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeServiceError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentSize+1))
	if err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeServiceError(c, err)
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	resp, err := h.service.AttachDocument(c.Request.Context(), actor, id, c.PostForm("documentType"), UploadedFile{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Data:        data,
	})
	if err != nil {
		h.releaseIdempotency(c, 0, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	resp, err := h.service.ListDocuments(c.Request.Context(), getActor(c), c.Param("id"), c.Query("documentType"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	err := h.service.DetachDocument(c.Request.Context(), getActor(c), c.Param("id"), c.Param("documentId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) DownloadForm12BB(c *gin.Context) {
	out, filename, err := h.service.RenderForm12BB(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	c.Data(http.StatusOK, "application/pdf", out)
}
