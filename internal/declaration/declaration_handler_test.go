package declaration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"go-hrportal/internal/declaration"
	declarationerrors "go-hrportal/internal/declaration/errors"
	"go-hrportal/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeDeclarationService struct {
	SaveFn           func(ctx context.Context, actor declaration.Actor, req declaration.SaveDeclarationRequest) (declaration.DeclarationResponse, bool, error)
	SubmitFn         func(ctx context.Context, actor declaration.Actor, req declaration.SubmitDeclarationRequest) (declaration.DeclarationResponse, error)
	ApproveFn        func(ctx context.Context, actor declaration.Actor, req declaration.ReviewDeclarationRequest) (declaration.DeclarationResponse, error)
	RejectFn         func(ctx context.Context, actor declaration.Actor, req declaration.ReviewDeclarationRequest) (declaration.DeclarationResponse, error)
	DeleteFn         func(ctx context.Context, actor declaration.Actor, id string) error
	GetByIDFn        func(ctx context.Context, actor declaration.Actor, id string) (declaration.DeclarationResponse, error)
	GetByEmployeeFn  func(ctx context.Context, actor declaration.Actor, employeeID, financialYear string) (declaration.DeclarationResponse, error)
	ListFn           func(ctx context.Context, actor declaration.Actor, req declaration.ListDeclarationsRequest) (declaration.ListResult, error)
	AttachFn         func(ctx context.Context, actor declaration.Actor, declarationID, section string, file declaration.UploadedFile) (declaration.AttachmentResponse, error)
	DetachFn         func(ctx context.Context, actor declaration.Actor, declarationID, documentID string) error
	ListDocumentsFn  func(ctx context.Context, actor declaration.Actor, declarationID, section string) (declaration.DocumentsResponse, error)
	RenderForm12BBFn func(ctx context.Context, actor declaration.Actor, id string) ([]byte, string, error)
}

func (f *fakeDeclarationService) Save(ctx context.Context, actor declaration.Actor, req declaration.SaveDeclarationRequest) (declaration.DeclarationResponse, bool, error) {
	return f.SaveFn(ctx, actor, req)
}
func (f *fakeDeclarationService) Submit(ctx context.Context, actor declaration.Actor, req declaration.SubmitDeclarationRequest) (declaration.DeclarationResponse, error) {
	return f.SubmitFn(ctx, actor, req)
}
func (f *fakeDeclarationService) Approve(ctx context.Context, actor declaration.Actor, req declaration.ReviewDeclarationRequest) (declaration.DeclarationResponse, error) {
	return f.ApproveFn(ctx, actor, req)
}
func (f *fakeDeclarationService) Reject(ctx context.Context, actor declaration.Actor, req declaration.ReviewDeclarationRequest) (declaration.DeclarationResponse, error) {
	return f.RejectFn(ctx, actor, req)
}
func (f *fakeDeclarationService) Delete(ctx context.Context, actor declaration.Actor, id string) error {
	return f.DeleteFn(ctx, actor, id)
}
func (f *fakeDeclarationService) GetByID(ctx context.Context, actor declaration.Actor, id string) (declaration.DeclarationResponse, error) {
	return f.GetByIDFn(ctx, actor, id)
}
func (f *fakeDeclarationService) GetByEmployee(ctx context.Context, actor declaration.Actor, employeeID, financialYear string) (declaration.DeclarationResponse, error) {
	return f.GetByEmployeeFn(ctx, actor, employeeID, financialYear)
}
func (f *fakeDeclarationService) List(ctx context.Context, actor declaration.Actor, req declaration.ListDeclarationsRequest) (declaration.ListResult, error) {
	return f.ListFn(ctx, actor, req)
}
func (f *fakeDeclarationService) AttachDocument(ctx context.Context, actor declaration.Actor, declarationID, section string, file declaration.UploadedFile) (declaration.AttachmentResponse, error) {
	return f.AttachFn(ctx, actor, declarationID, section, file)
}
func (f *fakeDeclarationService) DetachDocument(ctx context.Context, actor declaration.Actor, declarationID, documentID string) error {
	return f.DetachFn(ctx, actor, declarationID, documentID)
}
func (f *fakeDeclarationService) ListDocuments(ctx context.Context, actor declaration.Actor, declarationID, section string) (declaration.DocumentsResponse, error) {
	return f.ListDocumentsFn(ctx, actor, declarationID, section)
}
func (f *fakeDeclarationService) RenderForm12BB(ctx context.Context, actor declaration.Actor, id string) ([]byte, string, error) {
	return f.RenderForm12BBFn(ctx, actor, id)
}
func (f *fakeDeclarationService) ArchiveForm12BB(ctx context.Context, id string) (string, error) {
	return "", errors.New("not used by the handler")
}

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		Total      int64  `json:"total"`
		Limit      int    `json:"limit"`
		NextCursor string `json:"nextCursor"`
	} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	return gin.New()
}

func withActor(userID, employeeID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		c.Set("role", role)
		c.Next()
	}
}

const saveBody = `{
	"employeeId": "%s",
	"financialYear": "2025-26",
	"taxScheme": "Old Tax Scheme",
	"section80CDeductions": [{"itemName": "PPF", "amount": 120000}],
	"declaration": {"isAgreed": true, "employeeSignature": "Asha Kumar"}
}`

func TestDeclarationHandler_Save(t *testing.T) {
	userID := uuid.NewString()
	employeeID := uuid.NewString()

	newRouter := func(svc declaration.Service) *gin.Engine {
		r := setupRouter()
		h := declaration.NewHandler(svc, nil)
		r.POST("/declaration", withActor(userID, employeeID, declaration.RoleEmployee), h.Save)
		return r
	}

	t.Run("created", func(t *testing.T) {
		svc := &fakeDeclarationService{
			SaveFn: func(ctx context.Context, actor declaration.Actor, req declaration.SaveDeclarationRequest) (declaration.DeclarationResponse, bool, error) {
				assert.Equal(t, userID, actor.UserID)
				assert.Equal(t, employeeID, actor.EmployeeID)
				assert.Equal(t, "2025-26", req.FinancialYear)
				assert.Equal(t, "PPF", req.Section80C[0].ItemName)
				return declaration.DeclarationResponse{ID: uuid.NewString(), Status: declaration.StatusDraft}, true, nil
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration", strings.NewReader(strings.Replace(saveBody, "%s", employeeID, 1)))
		req.Header.Set("Content-Type", "application/json")
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"status":"Draft"`)
	})

	t.Run("updated", func(t *testing.T) {
		svc := &fakeDeclarationService{
			SaveFn: func(ctx context.Context, actor declaration.Actor, req declaration.SaveDeclarationRequest) (declaration.DeclarationResponse, bool, error) {
				return declaration.DeclarationResponse{ID: uuid.NewString(), Version: 2}, false, nil
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration", strings.NewReader(strings.Replace(saveBody, "%s", employeeID, 1)))
		req.Header.Set("Content-Type", "application/json")
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("80CCC claim is read from section80CCDeduction", func(t *testing.T) {
		body := `{
			"employeeId": "` + employeeID + `",
			"financialYear": "2025-26",
			"taxScheme": "Old Tax Scheme",
			"section80CCDeduction": {"isApplicable": true, "amount": "10000"},
			"section80CCD1Deduction": {"isApplicable": false, "amount": 5000}
		}`
		var got declaration.SaveDeclarationRequest
		svc := &fakeDeclarationService{
			SaveFn: func(ctx context.Context, actor declaration.Actor, req declaration.SaveDeclarationRequest) (declaration.DeclarationResponse, bool, error) {
				got = req
				return declaration.DeclarationResponse{ID: uuid.NewString()}, true, nil
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, got.Section80CCC.IsApplicable)
		assert.Equal(t, "10000", got.Section80CCC.Amount.String())
		assert.Equal(t, "5000", got.Section80CCD1.Amount.String())
	})

	t.Run("validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration", strings.NewReader(`{"financialYear":"2025"}`))
		req.Header.Set("Content-Type", "application/json")
		newRouter(&fakeDeclarationService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("locked declaration", func(t *testing.T) {
		svc := &fakeDeclarationService{
			SaveFn: func(ctx context.Context, actor declaration.Actor, req declaration.SaveDeclarationRequest) (declaration.DeclarationResponse, bool, error) {
				return declaration.DeclarationResponse{}, false, declarationerrors.ErrDeclarationLocked
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration", strings.NewReader(strings.Replace(saveBody, "%s", employeeID, 1)))
		req.Header.Set("Content-Type", "application/json")
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidState, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("unexpected error", func(t *testing.T) {
		svc := &fakeDeclarationService{
			SaveFn: func(ctx context.Context, actor declaration.Actor, req declaration.SaveDeclarationRequest) (declaration.DeclarationResponse, bool, error) {
				return declaration.DeclarationResponse{}, false, errors.New("db down")
			},
		}

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration", strings.NewReader(strings.Replace(saveBody, "%s", employeeID, 1)))
		req.Header.Set("Content-Type", "application/json")
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestDeclarationHandler_Review(t *testing.T) {
	adminID := uuid.NewString()
	declarationID := uuid.NewString()

	r := setupRouter()
	h := declaration.NewHandler(&fakeDeclarationService{
		RejectFn: func(ctx context.Context, actor declaration.Actor, req declaration.ReviewDeclarationRequest) (declaration.DeclarationResponse, error) {
			assert.Equal(t, declaration.RoleAdmin, actor.Role)
			if req.Remarks == "" {
				return declaration.DeclarationResponse{}, declarationerrors.ErrRemarksRequired
			}
			return declaration.DeclarationResponse{ID: req.DeclarationID, Status: declaration.StatusRejected}, nil
		},
	}, nil)
	r.PUT("/declaration/reject", withActor(adminID, "", declaration.RoleAdmin), h.Reject)

	t.Run("rejects with remarks", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"declarationId":"` + declarationID + `","remarks":"missing receipts"}`
		req := httptest.NewRequest(http.MethodPut, "/declaration/reject", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decodeEnvelope(t, w).Data), `"status":"Rejected"`)
	})

	t.Run("remarks required", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"declarationId":"` + declarationID + `"}`
		req := httptest.NewRequest(http.MethodPut, "/declaration/reject", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("declaration id must be a uuid", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/declaration/reject", strings.NewReader(`{"declarationId":"nope","remarks":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeclarationHandler_GetByEmployee(t *testing.T) {
	employeeID := uuid.NewString()

	r := setupRouter()
	h := declaration.NewHandler(&fakeDeclarationService{
		GetByEmployeeFn: func(ctx context.Context, actor declaration.Actor, eid, fy string) (declaration.DeclarationResponse, error) {
			if fy != "2025-26" {
				return declaration.DeclarationResponse{}, declarationerrors.ErrDeclarationNotFound
			}
			return declaration.DeclarationResponse{EmployeeID: eid, FinancialYear: fy}, nil
		},
	}, nil)
	r.GET("/declaration/employee", withActor(uuid.NewString(), employeeID, declaration.RoleEmployee), h.GetByEmployee)

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/declaration/employee?employeeId="+employeeID+"&financialYear=2025-26", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing query", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/declaration/employee?employeeId="+employeeID, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/declaration/employee?employeeId="+employeeID+"&financialYear=2024-25", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeclarationHandler_List(t *testing.T) {
	r := setupRouter()
	h := declaration.NewHandler(&fakeDeclarationService{
		ListFn: func(ctx context.Context, actor declaration.Actor, req declaration.ListDeclarationsRequest) (declaration.ListResult, error) {
			assert.Equal(t, declaration.StatusSubmitted, req.Status)
			assert.Equal(t, 1, req.Limit)
			return declaration.ListResult{
				Items:      []declaration.DeclarationResponse{{ID: uuid.NewString()}},
				Limit:      1,
				NextCursor: "next-page",
			}, nil
		},
	}, nil)
	r.GET("/declarations/all", withActor(uuid.NewString(), "", declaration.RoleAdmin), h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/declarations/all?status=Submitted&limit=1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	if assert.NotNil(t, env.Meta) {
		assert.Equal(t, "next-page", env.Meta.NextCursor)
		assert.Equal(t, 1, env.Meta.Limit)
		assert.Equal(t, int64(1), env.Meta.Total)
	}
}

func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		assert.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="document"; filename="`+filename+`"`)
		if contentType != "" {
			hdr.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(hdr)
		assert.NoError(t, err)
		_, err = part.Write(data)
		assert.NoError(t, err)
	}
	assert.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestDeclarationHandler_UploadDocument(t *testing.T) {
	declarationID := uuid.NewString()
	pdf := []byte("%PDF-1.4\n%test document")

	newRouter := func(svc declaration.Service) *gin.Engine {
		r := setupRouter()
		h := declaration.NewHandler(svc, nil)
		r.POST("/declaration/:id/upload-document", withActor(uuid.NewString(), uuid.NewString(), declaration.RoleEmployee), h.UploadDocument)
		return r
	}

	t.Run("success", func(t *testing.T) {
		svc := &fakeDeclarationService{
			AttachFn: func(ctx context.Context, actor declaration.Actor, id, section string, file declaration.UploadedFile) (declaration.AttachmentResponse, error) {
				assert.Equal(t, declarationID, id)
				assert.Equal(t, "hraDocuments", section)
				assert.Equal(t, "rent.pdf", file.Filename)
				assert.Equal(t, "application/pdf", file.ContentType)
				assert.Equal(t, pdf, file.Data)
				return declaration.AttachmentResponse{ID: uuid.NewString(), Section: section, Filename: file.Filename}, nil
			},
		}

		body, ct := multipartBody(t, map[string]string{"declarationId": declarationID, "documentType": "hraDocuments"}, "rent.pdf", "application/pdf", pdf)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration/"+declarationID+"/upload-document", body)
		req.Header.Set("Content-Type", ct)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("content type sniffed when missing", func(t *testing.T) {
		svc := &fakeDeclarationService{
			AttachFn: func(ctx context.Context, actor declaration.Actor, id, section string, file declaration.UploadedFile) (declaration.AttachmentResponse, error) {
				assert.Equal(t, "application/pdf", file.ContentType)
				return declaration.AttachmentResponse{}, nil
			},
		}

		body, ct := multipartBody(t, map[string]string{"documentType": "hraDocuments"}, "rent.pdf", "application/octet-stream", pdf)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration/"+declarationID+"/upload-document", body)
		req.Header.Set("Content-Type", ct)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("mismatched declaration id", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"declarationId": uuid.NewString(), "documentType": "hraDocuments"}, "rent.pdf", "application/pdf", pdf)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration/"+declarationID+"/upload-document", body)
		req.Header.Set("Content-Type", ct)
		newRouter(&fakeDeclarationService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"documentType": "hraDocuments"}, "", "", nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration/"+declarationID+"/upload-document", body)
		req.Header.Set("Content-Type", ct)
		newRouter(&fakeDeclarationService{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("locked", func(t *testing.T) {
		svc := &fakeDeclarationService{
			AttachFn: func(ctx context.Context, actor declaration.Actor, id, section string, file declaration.UploadedFile) (declaration.AttachmentResponse, error) {
				return declaration.AttachmentResponse{}, declarationerrors.ErrAttachmentsLocked
			},
		}

		body, ct := multipartBody(t, map[string]string{"documentType": "hraDocuments"}, "rent.pdf", "application/pdf", pdf)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/declaration/"+declarationID+"/upload-document", body)
		req.Header.Set("Content-Type", ct)
		newRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidState, decodeEnvelope(t, w).Error.Code)
	})
}

func TestDeclarationHandler_Documents(t *testing.T) {
	declarationID := uuid.NewString()
	documentID := uuid.NewString()

	r := setupRouter()
	h := declaration.NewHandler(&fakeDeclarationService{
		ListDocumentsFn: func(ctx context.Context, actor declaration.Actor, id, section string) (declaration.DocumentsResponse, error) {
			assert.Equal(t, "ltaDocuments", section)
			return declaration.DocumentsResponse{"ltaDocuments": {}}, nil
		},
		DetachFn: func(ctx context.Context, actor declaration.Actor, id, docID string) error {
			assert.Equal(t, declarationID, id)
			if docID != documentID {
				return declarationerrors.ErrAttachmentNotFound
			}
			return nil
		},
	}, nil)
	actor := withActor(uuid.NewString(), uuid.NewString(), declaration.RoleEmployee)
	r.GET("/declaration/:id/documents", actor, h.ListDocuments)
	r.DELETE("/declaration/:id/documents/:documentId", actor, h.DeleteDocument)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/declaration/"+declarationID+"/documents?documentType=ltaDocuments", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ltaDocuments":[]}`, string(decodeEnvelope(t, w).Data))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/declaration/"+declarationID+"/documents/"+documentID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/declaration/"+declarationID+"/documents/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeclarationHandler_DownloadForm12BB(t *testing.T) {
	declarationID := uuid.NewString()

	r := setupRouter()
	h := declaration.NewHandler(&fakeDeclarationService{
		RenderForm12BBFn: func(ctx context.Context, actor declaration.Actor, id string) ([]byte, string, error) {
			if id != declarationID {
				return nil, "", declarationerrors.ErrDeclarationNotFound
			}
			return []byte("%PDF-1.3 form"), "Form12BB_EMP-042_2025-26.pdf", nil
		},
	}, nil)
	r.GET("/declaration/:id/form12bb", withActor(uuid.NewString(), uuid.NewString(), declaration.RoleEmployee), h.DownloadForm12BB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/declaration/"+declarationID+"/form12bb", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Form12BB_EMP-042_2025-26.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/declaration/"+uuid.NewString()+"/form12bb", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
