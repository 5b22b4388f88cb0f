package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/filedock/pkg/config"
	"github.com/shishobooks/filedock/pkg/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, metricsEnabled bool) (http.Handler, string) {
	t.Helper()

	cfg := config.NewForTest()
	cfg.RootPath = t.TempDir()
	cfg.MaxUploadSizeMB = 1
	cfg.MetricsEnabled = metricsEnabled

	root, err := sandbox.NewRoot(cfg.RootPath)
	require.NoError(t, err)

	srv, err := New(cfg, root)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5080", srv.Addr)

	return srv.Handler, root.Path()
}

func serve(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_Routes(t *testing.T) {
	h, rootPath := newTestServer(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(rootPath, "hello.txt"), []byte("hello"), 0644))

	rr := serve(h, http.MethodGet, "/files/browse", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"hello.txt"`)

	rr = serve(h, http.MethodGet, "/files/search?q=HELLO", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"hello.txt"`)

	rr = serve(h, http.MethodGet, "/files/preview?path=hello.txt", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"content":"hello"`)

	rr = serve(h, http.MethodGet, "/files/download?path=hello.txt", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())

	rr = serve(h, http.MethodPost, "/files/folders", echo.MIMEApplicationJSON, `{"name":"new"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(h, http.MethodPost, "/files/copy", echo.MIMEApplicationJSON, `{"source":"hello.txt","destination":"new"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(h, http.MethodPost, "/files/move", echo.MIMEApplicationJSON, `{"source":"hello.txt","destination":"new"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"path":"new/hello (1).txt"}`, rr.Body.String())

	rr = serve(h, http.MethodDelete, "/files?path=new&recursive=true", "", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = serve(h, http.MethodGet, "/config", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "filedock_")
}

func TestServer_Errors(t *testing.T) {
	h, _ := newTestServer(t, false)

	rr := serve(h, http.MethodGet, "/does-not-exist", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(h, http.MethodGet, "/files/browse?path=../../etc", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NotContains(t, rr.Body.String(), "/etc")

	rr = serve(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	big := strings.Repeat("x", 2<<20)
	rr = serve(h, http.MethodPost, "/files/folders", echo.MIMEApplicationJSON, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}
