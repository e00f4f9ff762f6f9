package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/Lllllllleong/intelliask/internal/models"
	"github.com/Lllllllleong/intelliask/internal/services"
	"github.com/Lllllllleong/intelliask/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(context.Context, []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeGenerator struct {
	questions string
	err       error
	calls     int
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	f.calls++
	return f.questions, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestHandler(ex *fakeExtractor, gen *fakeGenerator) *UploadHandler {
	p := services.NewPipeline(services.NewPDFTrimmer(), ex, gen, services.WithLogger(testLogger()))
	return NewUploadHandler(p, testLogger())
}

// multipartRequest builds an upload with a hand-written Content-Disposition so
// an empty filename can be sent.
func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", "application/octet-stream")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler_Success(t *testing.T) {
	ex := &fakeExtractor{text: "EXTRACTED"}
	gen := &fakeGenerator{questions: "Q1?\nQ2?"}

	rec := httptest.NewRecorder()
	newTestHandler(ex, gen).ServeHTTP(rec, multipartRequest(t, "file", "paper.pdf", testutil.BuildPDF(3)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"success": true, "num_pages_processed": 3, "questions": "Q1?\nQ2?", "extracted_text_length": 9}`, rec.Body.String())
}

func TestUploadHandler_TrimsLongDocuments(t *testing.T) {
	ex := &fakeExtractor{text: "x"}
	gen := &fakeGenerator{questions: "Q?"}

	rec := httptest.NewRecorder()
	newTestHandler(ex, gen).ServeHTTP(rec, multipartRequest(t, "file", "long.pdf", testutil.BuildPDF(12)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true, "num_pages_processed": 8, "questions": "Q?", "extracted_text_length": 1}`, rec.Body.String())
}

func TestUploadHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		request func(t *testing.T) *http.Request
		want    string
	}{
		{
			name: "missing file field",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "document", "paper.pdf", testutil.BuildPDF(1))
			},
			want: "No file uploaded",
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(`{"file":"paper.pdf"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			want: "No file uploaded",
		},
		{
			name: "multipart without boundary",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("payload"))
				req.Header.Set("Content-Type", "multipart/form-data")
				return req
			},
			want: "No file uploaded",
		},
		{
			name: "empty filename",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "", nil)
			},
			want: "No file selected",
		},
		{
			name: "wrong extension",
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "file", "notes.txt", []byte("hello"))
			},
			want: "Only PDF files are accepted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &fakeExtractor{}
			gen := &fakeGenerator{}

			rec := httptest.NewRecorder()
			newTestHandler(ex, gen).ServeHTTP(rec, tt.request(t))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, tt.want), rec.Body.String())
			assert.Zero(t, ex.calls)
			assert.Zero(t, gen.calls)
		})
	}
}

func TestUploadHandler_PipelineErrors(t *testing.T) {
	t.Run("ocr failure", func(t *testing.T) {
		ex := &fakeExtractor{err: errors.New("quota exceeded")}
		gen := &fakeGenerator{}

		rec := httptest.NewRecorder()
		newTestHandler(ex, gen).ServeHTTP(rec, multipartRequest(t, "file", "paper.pdf", testutil.BuildPDF(2)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success": false, "error": "OCR service failed: quota exceeded"}`, rec.Body.String())
		assert.Zero(t, gen.calls)
	})

	t.Run("inference failure", func(t *testing.T) {
		ex := &fakeExtractor{text: "text"}
		gen := &fakeGenerator{err: errors.New("connection refused")}

		rec := httptest.NewRecorder()
		newTestHandler(ex, gen).ServeHTTP(rec, multipartRequest(t, "file", "paper.pdf", testutil.BuildPDF(2)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success": false, "error": "inference service failed: connection refused"}`, rec.Body.String())
	})

	t.Run("malformed pdf", func(t *testing.T) {
		ex := &fakeExtractor{}
		gen := &fakeGenerator{}

		rec := httptest.NewRecorder()
		newTestHandler(ex, gen).ServeHTTP(rec, multipartRequest(t, "file", "broken.pdf", []byte("not a pdf at all")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body models.ErrorResponse
		require.NoError(t, jsonDecode(rec.Body, &body))
		require.NotNil(t, body.Success)
		assert.False(t, *body.Success)
		assert.True(t, strings.HasPrefix(body.Error, "malformed PDF document: "), body.Error)
		assert.Zero(t, ex.calls)
	})
}

func TestUploadHandler_BodyReadFailure(t *testing.T) {
	partial := "--xyz\r\n" +
		"Content-Disposition: form-data; name=\"file\"; filename=\"paper.pdf\"\r\n" +
		"Content-Type: application/pdf\r\n\r\n" +
		"%PDF-1.4 partial"
	body := io.MultiReader(strings.NewReader(partial), iotest.ErrReader(errors.New("connection reset by peer")))

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	ex := &fakeExtractor{}
	rec := httptest.NewRecorder()
	newTestHandler(ex, &fakeGenerator{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp models.ErrorResponse
	require.NoError(t, jsonDecode(rec.Body, &resp))
	require.NotNil(t, resp.Success)
	assert.False(t, *resp.Success)
	assert.True(t, strings.HasPrefix(resp.Error, "failed to read multipart form: "), resp.Error)
	assert.Zero(t, ex.calls)
}

func TestUploadHandler_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&fakeExtractor{}, &fakeGenerator{}).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/upload", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestUploadHandler_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&fakeExtractor{}, &fakeGenerator{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/upload", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
	assert.JSONEq(t, `{"error": "Method not allowed"}`, rec.Body.String())
}

func TestInitFailure(t *testing.T) {
	h := InitFailure(errors.New("openai.New: missing token"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, "file", "paper.pdf", testutil.BuildPDF(1)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success": false, "error": "openai.New: missing token"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/upload", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
