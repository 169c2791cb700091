package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusforge/ttcore/internal/dto"
	"github.com/campusforge/ttcore/internal/tabular"
	appErrors "github.com/campusforge/ttcore/pkg/errors"
	"github.com/campusforge/ttcore/pkg/response"
)

// recognizedUploadKinds are the multipart field/file names the upload
// endpoint accepts, matching the recognized filenames listed for
// POST /upload. time_config is accepted but not schema-validated here
// — it has no tabular.Kind of its own.
var recognizedUploadKinds = []string{
	tabular.KindFaculty,
	tabular.KindCourses,
	tabular.KindRooms,
	tabular.KindSections,
	tabular.KindFacultyCourseMap,
	"time_config",
}

// rowParser converts an uploaded file's bytes into tabular.Rows. Kept
// as a narrow dependency so the handler doesn't hardcode a single
// serialization format.
type rowParser interface {
	ParseRows(data []byte) ([]tabular.Row, error)
}

// UploadHandler exposes multi-file upload validation and the
// single-file row-level validation endpoint.
type UploadHandler struct {
	parser rowParser
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(parser rowParser) *UploadHandler {
	return &UploadHandler{parser: parser}
}

// Upload handles POST /upload.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart upload"))
		return
	}

	parsed := map[string][]tabular.Row{}
	files := make([]dto.UploadFileResult, 0, len(form.File))

	for _, kind := range recognizedUploadKinds {
		headers, ok := form.File[kind]
		if !ok || len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cannot open uploaded file "+fh.Filename))
			return
		}
		data := make([]byte, fh.Size)
		if _, err := f.Read(data); err != nil {
			_ = f.Close()
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cannot read uploaded file "+fh.Filename))
			return
		}
		_ = f.Close()

		rows, err := h.parser.ParseRows(data)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "cannot parse uploaded file "+fh.Filename))
			return
		}
		parsed[kind] = rows

		result := tabular.Result{IsValid: true}
		if kind != "time_config" {
			for _, row := range rows {
				rowResult := tabular.ValidateRow(kind, row)
				result.Errors = append(result.Errors, rowResult.Errors...)
				result.Warnings = append(result.Warnings, rowResult.Warnings...)
			}
			result.IsValid = len(result.Errors) == 0
		}
		files = append(files, dto.UploadFileResult{
			Filename: fh.Filename,
			Kind:     kind,
			Rows:     len(rows),
			Result:   result,
		})
	}

	overall := tabular.ValidateUpload(tabular.Upload{
		Faculty:          parsed[tabular.KindFaculty],
		Courses:          parsed[tabular.KindCourses],
		Rooms:            parsed[tabular.KindRooms],
		Sections:         parsed[tabular.KindSections],
		FacultyCourseMap: parsed[tabular.KindFacultyCourseMap],
	})

	response.JSON(c, http.StatusOK, dto.UploadResponse{
		UploadID: uuid.NewString(),
		Files:    files,
		Overall:  overall,
	}, nil)
}

// ValidateRow handles POST /upload/validate/{kind}.
func (h *UploadHandler) ValidateRow(c *gin.Context) {
	kind := strings.ToLower(c.Param("kind"))
	if _, ok := tabular.Schema(kind); !ok {
		response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "unrecognized upload kind: "+kind))
		return
	}

	var req dto.ValidateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid row payload"))
		return
	}

	result := tabular.ValidateRow(kind, req.Row)
	response.JSON(c, http.StatusOK, dto.ValidateRowResponse{Result: result}, nil)
}
