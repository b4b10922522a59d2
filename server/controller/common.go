package controller

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Luismorlan/tunemux/file_store"
	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/service"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// pageFromQuery reads take and skip. Missing or non integer values fall back
// to the defaults, negative values are left for the services to reject.
func pageFromQuery(c *gin.Context) model.Page {
	page := model.DefaultPage()
	if take, err := strconv.Atoi(c.Query("take")); err == nil {
		page.Take = take
	}
	if skip, err := strconv.Atoi(c.Query("skip")); err == nil {
		page.Skip = skip
	}
	return page
}

// pathID parses an id path parameter. An id that is not a number cannot
// exist, so it is reported as not found.
func pathID(c *gin.Context, name string, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, service.NotFound(notFound)
	}
	return uint(id), nil
}

func queryUserID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		return 0, service.FieldRequired("user_id")
	}
	return uint(id), nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm)
}

// bindBody binds a JSON or form body, an empty body leaves dest untouched.
func bindBody(c *gin.Context, dest interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBind(dest); err != nil {
		return service.BadRequest(service.MsgInvalidBody)
	}
	return nil
}

// optionalForm returns a pointer to a multipart form value, nil when the
// field was not sent.
func optionalForm(c *gin.Context, field string) *string {
	if value, ok := c.GetPostForm(field); ok {
		return &value
	}
	return nil
}

// formFiles opens uploaded files and keeps them until Close.
type formFiles struct {
	c     *gin.Context
	files []multipart.File
}

func newFormFiles(c *gin.Context) *formFiles {
	return &formFiles{c: c}
}

// Asset returns the uploaded file of field, nil when none was sent.
func (f *formFiles) Asset(field string) (*file_store.Asset, error) {
	header, err := f.c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, service.BadRequest(service.MsgInvalidBody)
	}
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open uploaded %s", field)
	}
	f.files = append(f.files, file)
	return &file_store.Asset{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, nil
}

func (f *formFiles) Close() {
	for _, file := range f.files {
		file.Close()
	}
}
