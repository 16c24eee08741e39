package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"oascore.io/oascore/internal/oas"
	apperrors "oascore.io/oascore/internal/pkg/errors"
)

// Score grades an OpenAPI document and returns the scorecard as JSON.
//
// The document arrives one of three ways, checked in order:
//   - ?url=<http(s) source> fetches the document server-side
//   - a multipart upload under the "spec" form field
//   - the raw request body (YAML or JSON)
func (s *Server) Score(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		doc *oas.Document
		err error
	)
	switch {
	case c.Query("url") != "":
		doc, err = s.loader.Load(ctx, c.Query("url"))
	default:
		var data []byte
		data, err = s.readDocument(c)
		if err == nil {
			doc, err = s.loader.LoadBytes(ctx, data)
		}
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	card := s.judge.Evaluate(ctx, doc)
	c.JSON(http.StatusOK, card)
}

func (s *Server) readDocument(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("spec")
		if err != nil {
			return nil, apperrors.BadRequest(apperrors.CodeSpecBodyMissing,
				"multipart upload is missing the \"spec\" field")
		}
		f, err := file.Open()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeSpecLoadFailed,
				"cannot open uploaded file", http.StatusBadRequest)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeSpecLoadFailed,
				"cannot read uploaded file", http.StatusBadRequest)
		}
		return data, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSpecLoadFailed,
			"cannot read request body", http.StatusBadRequest)
	}
	if len(data) == 0 {
		return nil, apperrors.BadRequest(apperrors.CodeSpecBodyMissing,
			"provide a document via ?url=, a multipart \"spec\" field, or the request body")
	}
	return data, nil
}
