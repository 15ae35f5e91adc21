package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	gotRole string
}

func (f *fakeService) Load(ctx context.Context) error { return nil }

func (f *fakeService) Enforce(role, resource, action string) (bool, error) {
	f.gotRole = role
	return role == RoleAdmin && resource == ResourceDeclaration && action == "approve", nil
}

func (f *fakeService) Permissions(role string) ([]Policy, error) {
	return []Policy{{Role: role, Resource: ResourceDeclaration, Action: "read"}}, nil
}

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

func newRBACRouter(svc Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	setRole := func(c *gin.Context) {
		c.Set("role", role)
		c.Next()
	}
	r.POST("/rbac/enforce", setRole, h.Enforce)
	r.GET("/rbac/permissions", setRole, h.MyPermissions)
	return r
}

func TestHandler_Enforce(t *testing.T) {
	svc := &fakeService{}
	r := newRBACRouter(svc, RoleAdmin)

	body, _ := json.Marshal(EnforceRequest{Resource: ResourceDeclaration, Action: "approve"})
	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, RoleAdmin, svc.gotRole)

	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resp EnforceResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Allowed)
}

func TestHandler_EnforceValidation(t *testing.T) {
	r := newRBACRouter(&fakeService{}, RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"resource":"declaration"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_MyPermissions(t *testing.T) {
	r := newRBACRouter(&fakeService{}, RoleEmployee)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/permissions", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resp PermissionsResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, RoleEmployee, resp.Role)
	assert.Equal(t, []PermissionResponse{{Resource: ResourceDeclaration, Action: "read"}}, resp.Permissions)
}
