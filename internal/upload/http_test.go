package upload

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/iconpack/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T) Page {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page0.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o644))
	return Page{Key: "asset/Default_24_1/page0.png", Path: path, DisplayName: "default_24_1_p0"}
}

func TestHTTPClient_Submit(t *testing.T) {
	page := writePage(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/assets/v1/assets", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		var meta map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("request")), &meta))
		assert.Equal(t, "Decal", meta["assetType"])
		assert.Equal(t, "default_24_1_p0", meta["displayName"])
		assert.Equal(t, "sheet", meta["description"])
		assert.Equal(t, map[string]any{"creator": map[string]any{"groupId": float64(4181328)}}, meta["creationContext"])

		file, header, err := r.FormFile("fileContent")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "page0.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		body, _ := io.ReadAll(file)
		assert.Equal(t, "png-bytes", string(body))

		_, _ = w.Write([]byte(`{"path":"operations/op-1","operationId":"op-1","done":false}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{
		Endpoint: srv.URL + "/assets/v1/", APIKey: "secret", AssetType: "Decal",
		Description: "sheet", CreatorGroupID: 4181328,
	})
	defer c.Close()

	id, err := c.Submit(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, "op-1", id)
}

func TestHTTPClient_Operation(t *testing.T) {
	responses := map[string]string{
		"/operations/pending": `{"done":false}`,
		"/operations/number":  `{"done":true,"response":{"assetId":123}}`,
		"/operations/string":  `{"done":true,"response":{"assetId":"456"}}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(responses[r.URL.Path]))
	}))
	defer srv.Close()
	c := NewHTTPClient(HTTPOptions{Endpoint: srv.URL, APIKey: "k"})

	tests := []struct {
		id   string
		want Status
	}{
		{"pending", Status{}},
		{"number", Status{Done: true, AssetID: 123}},
		{"string", Status{Done: true, AssetID: 456}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			st, err := c.Operation(context.Background(), tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st)
		})
	}
}

func TestHTTPClient_Non200IsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := NewHTTPClient(HTTPOptions{Endpoint: srv.URL})

	_, err := c.Submit(context.Background(), writePage(t))
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Transient))
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = c.Operation(context.Background(), "x")
	assert.True(t, fault.Is(err, fault.Transient))
}

func TestHTTPClient_MissingFileIsNotTransient(t *testing.T) {
	c := NewHTTPClient(HTTPOptions{Endpoint: "http://127.0.0.1:1"})
	_, err := c.Submit(context.Background(), Page{Key: "k", Path: filepath.Join(t.TempDir(), "absent.png")})
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Config))
	assert.False(t, fault.Is(err, fault.Transient))
}

func TestHTTPClient_MissingOperationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c := NewHTTPClient(HTTPOptions{Endpoint: srv.URL})

	_, err := c.Submit(context.Background(), writePage(t))
	assert.True(t, fault.Is(err, fault.Transient))
}
