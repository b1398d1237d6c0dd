package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
)

// formFiles reads every file posted under field. A request that is not
// multipart simply has no files.
func formFiles(c *gin.Context, field string) ([]httpclient.FilePart, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}
	headers := form.File[field]
	parts := make([]httpclient.FilePart, 0, len(headers))
	for _, fh := range headers {
		part, err := readPart(fh, field)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func readPart(fh *multipart.FileHeader, field string) (httpclient.FilePart, error) {
	f, err := fh.Open()
	if err != nil {
		return httpclient.FilePart{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close() //nolint:errcheck
	data, err := io.ReadAll(f)
	if err != nil {
		return httpclient.FilePart{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return httpclient.FilePart{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
