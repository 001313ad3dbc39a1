package handler

import (
	"fmt"
	"mime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

const dateLayout = "2006-01-02"

// principalID returns the authenticated user's ID stored by the auth middleware.
func principalID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.PrincipalIDKey).(string)
	return id
}

// formValues collects every submitted value for a repeated form field,
// whether the body is multipart or urlencoded.
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if vals, ok := form.Value[key]; ok {
			return vals
		}
	}
	var out []string
	for _, b := range c.Request().PostArgs().PeekMulti(key) {
		out = append(out, string(b))
	}
	return out
}

// tagFields reads the submitted tag set: the array comes in as tags[]
// (or bare tags), the free-text comma list as tags_string.
func tagFields(c *fiber.Ctx) ([]string, string) {
	tags := formValues(c, "tags[]")
	if len(tags) == 0 {
		tags = formValues(c, "tags")
	}
	return tags, c.FormValue("tags_string")
}

// parseExpiredAt reads the optional expiry date form field (YYYY-MM-DD).
func parseExpiredAt(c *fiber.Ctx) (*time.Time, error) {
	raw := c.FormValue("expired_at")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListDocuments returns all documents with the tags currently in use.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateDocumentForm returns the data backing the "new document" form.
func CreateDocumentForm(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.CreateFormData(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateDocument handles the multipart creation form: metadata, a tag set
// and the initial file.
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expiredAt, err := parseExpiredAt(c)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(validationPayload{
				Message: "The given data was invalid.",
				Errors:  map[string]string{"expired_at": "The expired at is not a valid date."},
			})
		}

		tags, tagsString := tagFields(c)
		in := service.CreateDocumentInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			ExpiredAt:   expiredAt,
			Tags:        tags,
			TagsString:  tagsString,
			ActorID:     principalID(c),
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.File = f
			in.Filename = fh.Filename
			in.ContentType = ct
			in.Size = fh.Size
		}

		doc, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"document": doc,
			"message":  "Document created successfully.",
		})
	}
}

// GetDocument returns a single document with tags, versions and creator.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// EditDocumentForm returns the data backing the edit form.
func EditDocumentForm(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.EditFormData(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UpdateDocument overwrites metadata and replaces the document's tag set.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		expiredAt, err := parseExpiredAt(c)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(validationPayload{
				Message: "The given data was invalid.",
				Errors:  map[string]string{"expired_at": "The expired at is not a valid date."},
			})
		}

		tags, tagsString := tagFields(c)
		in := service.UpdateDocumentInput{
			ID:          id,
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			ExpiredAt:   expiredAt,
			Tags:        tags,
			TagsString:  tagsString,
			ActorID:     principalID(c),
		}

		doc, err := svc.Update(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"document": doc,
			"message":  "Document updated successfully.",
		})
	}
}

// UploadDocumentVersion appends a new file version to an existing document.
func UploadDocumentVersion(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		in := service.UploadVersionInput{
			DocumentID: id,
			Version:    c.FormValue("version"),
			ActorID:    principalID(c),
		}

		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			in.File = f
			in.Filename = fh.Filename
			in.ContentType = ct
			in.Size = fh.Size
		}

		ver, err := svc.UploadVersion(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"version": ver,
			"message": "New version uploaded successfully.",
		})
	}
}

// DownloadDocument streams the current file of a document.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, info, err := svc.Download(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		name := info.Metadata["original-filename"]
		if name == "" {
			// minio canonicalizes user metadata keys
			name = info.Metadata["Original-Filename"]
		}
		if name == "" {
			name = id
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		if info.Size > 0 {
			c.Set(fiber.HeaderContentLength, fmt.Sprintf("%d", info.Size))
		}
		return c.SendStream(rc)
	}
}

// DeleteDocument removes a document; its tag links and versions go with it.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Document deleted successfully."})
	}
}
