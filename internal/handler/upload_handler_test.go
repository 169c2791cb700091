package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/ttcore/internal/tabular"
)

// stubRowParser treats each uploaded file's bytes as newline-delimited
// "key=value,key=value" rows, avoiding a dependency on any concrete
// file-format adapter in this package's tests.
type stubRowParser struct{}

func (stubRowParser) ParseRows(data []byte) ([]tabular.Row, error) {
	row := tabular.Row{}
	for _, pair := range bytes.Split(bytes.TrimSpace(data), []byte(",")) {
		kv := bytes.SplitN(pair, []byte("="), 2)
		if len(kv) == 2 {
			row[string(kv[0])] = string(kv[1])
		}
	}
	return []tabular.Row{row}, nil
}

func TestUploadHandlerValidateRowUnrecognizedKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUploadHandler(stubRowParser{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/upload/validate/unknown", bytes.NewBufferString(`{"row":{}}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "unknown"}}

	handler.ValidateRow(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandlerValidateRowValidRow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUploadHandler(stubRowParser{})

	body, err := json.Marshal(map[string]interface{}{
		"row": map[string]string{"id": "F1", "name": "Dr. Smith"},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/upload/validate/faculty", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "faculty"}}

	handler.ValidateRow(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUploadHandlerUploadRecognizesNamedFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewUploadHandler(stubRowParser{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(tabular.KindFaculty, "faculty.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("id=F1,name=Dr. Smith"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request = req

	handler.Upload(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tabular.KindFaculty)
}
