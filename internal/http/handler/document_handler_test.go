package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docvault/internal/model"
	"docvault/internal/service"
	serviceMocks "docvault/internal/service/mocks"
	"docvault/internal/storage"
)

func multipartBody(t *testing.T, fields map[string][]string, filename string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, vals := range fields {
		for _, v := range vals {
			require.NoError(t, writer.WriteField(key, v))
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		part.Write([]byte("file contents"))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Documents: []model.Document{{ID: uuid.New().String(), Title: "Handbook"}},
			Tags:      []model.Tag{{ID: uuid.New().String(), Name: "hr"}},
		}
		mockSvc.On("List", mock.Anything).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Documents, 1)
		assert.Len(t, result.Tags, 1)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents", CreateDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]string{
			"title":  {"Handbook"},
			"tags[]": {"hr", "policy"},
		}, "handbook.pdf")

		expectedDoc := &model.Document{ID: uuid.New().String(), Title: "Handbook"}
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateDocumentInput) bool {
			return in.Title == "Handbook" &&
				in.Filename == "handbook.pdf" &&
				len(in.Tags) == 2
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result struct {
			Document model.Document `json:"document"`
			Message  string         `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.Document.ID)
		assert.Equal(t, "Document created successfully.", result.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("comma-separated tag string", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]string{
			"title":       {"Handbook"},
			"tags_string": {"hr, policy"},
		}, "handbook.pdf")

		expectedDoc := &model.Document{ID: uuid.New().String(), Title: "Handbook"}
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateDocumentInput) bool {
			return in.TagsString == "hr, policy" && len(in.Tags) == 0
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation error", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]string{"title": {""}}, "")

		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Fields: map[string]string{
				"title": "The title field is required.",
				"file":  "The file field is required.",
			}}).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var result validationPayload
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "The given data was invalid.", result.Message)
		assert.Contains(t, result.Errors, "title")
		assert.Contains(t, result.Errors, "file")
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid expiry date", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]string{
			"title":      {"Handbook"},
			"expired_at": {"not-a-date"},
		}, "handbook.pdf")

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var result validationPayload
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Contains(t, result.Errors, "expired_at")
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expectedDoc := &model.Document{ID: id, Title: "Handbook"}
		mockSvc.On("Get", mock.Anything, id).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})
}

func TestUpdateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Put("/documents/:id", UpdateDocument(mockSvc))

	t.Run("success replaces tag set", func(t *testing.T) {
		id := uuid.New().String()
		form := "title=Handbook+v2&tags%5B%5D=hr"

		expectedDoc := &model.Document{ID: id, Title: "Handbook v2"}
		mockSvc.On("Update", mock.Anything, mock.MatchedBy(func(in service.UpdateDocumentInput) bool {
			return in.ID == id &&
				in.Title == "Handbook v2" &&
				len(in.Tags) == 1 && in.Tags[0] == "hr"
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/"+id, strings.NewReader(form))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, mock.Anything).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/"+id, strings.NewReader("title=x"))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadDocumentVersion(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents/:id/upload-version", UploadDocumentVersion(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		body, ct := multipartBody(t, map[string][]string{"version": {"2.0"}}, "handbook-v2.pdf")

		expectedVer := &model.DocumentVersion{ID: uuid.New().String(), DocumentID: id, Version: "2.0"}
		mockSvc.On("UploadVersion", mock.Anything, mock.MatchedBy(func(in service.UploadVersionInput) bool {
			return in.DocumentID == id && in.Version == "2.0" && in.Filename == "handbook-v2.pdf"
		})).Return(expectedVer, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/upload-version", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result struct {
			Version model.DocumentVersion `json:"version"`
			Message string                `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "2.0", result.Version.Version)
		mockSvc.AssertExpectations(t)
	})

	t.Run("document gone", func(t *testing.T) {
		id := uuid.New().String()
		body, ct := multipartBody(t, map[string][]string{"version": {"2.0"}}, "handbook-v2.pdf")

		mockSvc.On("UploadVersion", mock.Anything, mock.Anything).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/upload-version", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id/download", DownloadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		content := "file contents"
		info := storage.ObjectInfo{
			Key:         "documents/" + id + ".pdf",
			Size:        int64(len(content)),
			ContentType: "application/pdf",
			Metadata:    map[string]string{"original-filename": "handbook.pdf"},
		}
		mockSvc.On("Download", mock.Anything, id).
			Return(io.NopCloser(strings.NewReader(content)), info, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "handbook.pdf")

		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, content, string(data))
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Download", mock.Anything, id).
			Return(nil, storage.ObjectInfo{}, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Document deleted successfully.", body["message"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDocumentForms(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/create", CreateDocumentForm(mockSvc))
	app.Get("/documents/:id/edit", EditDocumentForm(mockSvc))

	t.Run("create form data", func(t *testing.T) {
		mockSvc.On("CreateFormData", mock.Anything).
			Return(&service.DocumentFormData{Tags: []model.Tag{{Name: "hr"}}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/create", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("edit form data", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("EditFormData", mock.Anything, id).
			Return(&service.DocumentEditData{Document: &model.Document{ID: id}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/edit", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}
