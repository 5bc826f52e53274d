package handler

import (
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"textapi/internal/service"
)

// UploadFieldName is the multipart field that carries the uploaded file.
const UploadFieldName = "file"

type uploadResponse struct {
	FileID string `json:"fileId" example:"01HZX3Y8J5K2M7Q9R4T6V8W0YZ"`
}

// UploadFile godoc
// @Summary      Upload a text file
// @Description  Accepts exactly one text/* file in the "file" field. A file with the same name replaces the stored content.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Text file"
// @Success      200  {object}  uploadResponse
// @Failure      400  {object}  errorPayload
// @Failure      413  {object}  errorPayload
// @Failure      415  {object}  errorPayload
// @Failure      500  {object}  errorPayload
// @Router       /upload [post]
func UploadFile(svc service.FileService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := singleFile(c, UploadFieldName)
		if err != nil {
			return opts.fail(c, "upload", err)
		}

		f, err := fh.Open()
		if err != nil {
			return opts.fail(c, "upload", fmt.Errorf("%w: open upload: %w", service.ErrIO, err))
		}
		defer f.Close()

		ct := fh.Header.Get(fiber.HeaderContentType)
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}

		rec, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return opts.fail(c, "upload", err)
		}
		return c.JSON(uploadResponse{FileID: rec.ID})
	}
}

// singleFile returns the only file of the form, which must sit in field.
func singleFile(c *fiber.Ctx, field string) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrFileRequired, err)
	}
	total := 0
	for _, fhs := range form.File {
		total += len(fhs)
	}
	files := form.File[field]
	switch {
	case len(files) == 0:
		return nil, service.ErrFileRequired
	case total > 1:
		return nil, service.ErrTooManyFiles
	}
	return files[0], nil
}

// ListFiles godoc
// @Summary  List uploaded files
// @Tags     files
// @Produce  json
// @Param    limit   query  int  false  "Page size"  default(10)
// @Param    offset  query  int  false  "Offset"     default(0)
// @Success  200  {object}  service.FileListResult
// @Failure  400  {object}  errorPayload
// @Router   /files [get]
func ListFiles(svc service.FileService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := pageParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid pagination parameters")
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return opts.fail(c, "list_files", err)
		}
		return c.JSON(res)
	}
}

// GetFile godoc
// @Summary  Get file metadata
// @Tags     files
// @Produce  json
// @Param    fileId  path  string  true  "File ID"
// @Success  200  {object}  model.File
// @Failure  404  {object}  errorPayload
// @Router   /files/{fileId} [get]
func GetFile(svc service.FileService, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := svc.Get(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return opts.failLookup(c, "get_file", err)
		}
		return c.JSON(f)
	}
}

func pageParams(c *fiber.Ctx) (limit, offset int, ok bool) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, false
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, false
	}
	return limit, offset, true
}
