package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attachapi/internal/service"
)

// UserIDHeader carries the authenticated owner id, set by the gateway in front of this service.
const UserIDHeader = "X-User-ID"

const (
	minReviewContent  = 10
	maxFieldRunes     = 5000
	defaultPageLimit  = 10
	defaultOrphanPage = 100
)

// parentForm describes the multipart shape of one parent kind.
type parentForm struct {
	filesField string
	fields     func(form *multipart.Form) (map[string]string, error)
}

var (
	reviewForm      = parentForm{filesField: "images", fields: reviewFields}
	applicationForm = parentForm{filesField: "files", fields: applicationFields}
)

func reviewFields(form *multipart.Form) (map[string]string, error) {
	rating, err := strconv.Atoi(formValue(form, "rating"))
	if err != nil || rating < 1 || rating > 5 {
		return nil, errors.New("rating must be an integer between 1 and 5")
	}
	content := formValue(form, "content")
	if n := utf8.RuneCountInString(content); n < minReviewContent || n > maxFieldRunes {
		return nil, fmt.Errorf("content must be between %d and %d characters", minReviewContent, maxFieldRunes)
	}
	return map[string]string{"rating": strconv.Itoa(rating), "content": content}, nil
}

func applicationFields(form *multipart.Form) (map[string]string, error) {
	serviceType := formValue(form, "service_type")
	if serviceType == "" {
		return nil, errors.New("service_type is required")
	}
	description := formValue(form, "description")
	if utf8.RuneCountInString(description) > maxFieldRunes {
		return nil, fmt.Errorf("description must be at most %d characters", maxFieldRunes)
	}
	return map[string]string{"service_type": serviceType, "description": description}, nil
}

func formValue(form *multipart.Form, name string) string {
	if v := form.Value[name]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// formList accepts both "name" and "name[]" spellings of a repeated field.
func formList(form *multipart.Form, name string) []string {
	return append(slices.Clone(form.Value[name]), form.Value[name+"[]"]...)
}

// readFiles loads every file of a repeated multipart field in submission order.
func readFiles(form *multipart.Form, field string) ([]service.FileInput, error) {
	headers := append(slices.Clone(form.File[field]), form.File[field+"[]"]...)
	out := make([]service.FileInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, service.FileInput{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return out, nil
}

// SubmitReview godoc
// @Summary Submit a review with up to five images
// @Tags reviews
// @Accept multipart/form-data
// @Produce json
// @Param X-User-ID header string true "Owner id"
// @Param rating formData int true "Rating 1-5"
// @Param content formData string true "Review text, at least 10 characters"
// @Param images formData file false "Images (repeatable)"
// @Success 201 {object} model.ParentRecord
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /reviews [post]
func SubmitReview(svc service.SubmissionService) fiber.Handler {
	return submitParent(svc, reviewForm)
}

// SubmitApplication godoc
// @Summary Submit a service application with up to five files
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Param X-User-ID header string true "Owner id"
// @Param service_type formData string true "Requested service"
// @Param description formData string false "Details"
// @Param files formData file false "Files (repeatable)"
// @Success 201 {object} model.ParentRecord
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /applications [post]
func SubmitApplication(svc service.SubmissionService) fiber.Handler {
	return submitParent(svc, applicationForm)
}

func submitParent(svc service.SubmissionService, pf parentForm) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := strings.TrimSpace(c.Get(UserIDHeader))
		if owner == "" {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "X-User-ID header is required")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart/form-data body is required")
		}
		fields, err := pf.fields(form)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		}
		files, err := readFiles(form, pf.filesField)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}

		rec, err := svc.Submit(c.UserContext(), service.SubmitInput{
			OwnerID: owner,
			Fields:  fields,
			Files:   files,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// ReplaceReviewAttachments godoc
// @Summary Replace review images
// @Description Keeps the attachments named in keep[], adds the uploaded images and deletes the rest.
// @Tags reviews
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Review id"
// @Param keep formData []string false "Storage keys to keep"
// @Param images formData file false "New images (repeatable)"
// @Success 200 {object} model.ParentRecord
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /reviews/{id}/attachments [put]
func ReplaceReviewAttachments(svc service.SubmissionService) fiber.Handler {
	return replaceAttachments(svc, reviewForm)
}

// ReplaceApplicationAttachments is the application counterpart of ReplaceReviewAttachments.
func ReplaceApplicationAttachments(svc service.SubmissionService) fiber.Handler {
	return replaceAttachments(svc, applicationForm)
}

func replaceAttachments(svc service.SubmissionService, pf parentForm) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart/form-data body is required")
		}
		files, err := readFiles(form, pf.filesField)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}

		rec, err := svc.ReplaceAttachments(c.UserContext(), id, service.ReplaceInput{
			Keep:  formList(form, "keep"),
			Files: files,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// ListParents godoc
// @Summary List finalized records
// @Tags reviews,applications
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.ParentListResult
// @Router /reviews [get]
// @Router /applications [get]
func ListParents(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageLimit)))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetParent returns one finalized record.
func GetParent(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// deleteResponse reports which stored objects went away with the record.
type deleteResponse struct {
	ID      string   `json:"id"`
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

// DeleteParent godoc
// @Summary Delete a record and its attachments
// @Description Objects that could not be deleted are listed under failed and kept for reconciliation.
// @Tags reviews,applications
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} deleteResponse
// @Failure 404 {object} errorPayload
// @Router /reviews/{id} [delete]
// @Router /applications/{id} [delete]
func DeleteParent(svc service.SubmissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		report, err := svc.Delete(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(deleteResponse{ID: id, Deleted: report.Deleted, Failed: report.Failed})
	}
}
