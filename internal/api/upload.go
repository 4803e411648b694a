package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobportal/internal/board"
)

// multipartOverhead leaves room for the other form fields next to the file.
const multipartOverhead = 1 << 20

// limitBody caps the request body a little above the resume limit so oversized
// uploads are cut off before they are buffered.
func limitBody(c *gin.Context, maxFile int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFile+multipartOverhead)
}

// bindWithUpload binds the form into obj and returns the file in field, if any.
// A body over the limit is reported as a field error on field.
func bindWithUpload(c *gin.Context, obj any, field string) (*board.Upload, error) {
	if err := c.ShouldBind(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, board.FieldErrors{field: "The uploaded file is too large."}
		}
	}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, board.FieldErrors{field: "The uploaded file is too large."}
		}
		return nil, board.FieldErrors{field: "The submitted file could not be read."}
	}

	return &board.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}
