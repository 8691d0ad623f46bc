// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/specialistvlad/iconpack/internal/fault"
)

// HTTPOptions configures the asset service client.
type HTTPOptions struct {
	Endpoint       string // base URL, e.g. https://apis.roblox.com/assets/v1
	APIKey         string
	AssetType      string
	Description    string
	CreatorGroupID int64
	CreatorUserID  int64
	Timeout        time.Duration
}

// HTTPClient talks to the asset service over HTTP.
type HTTPClient struct {
	opts HTTPOptions
	http *http.Client
}

// NewHTTPClient builds a client with its own pooled transport. The API key is
// bound here and sent with every request.
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	opts.Endpoint = strings.TrimRight(opts.Endpoint, "/")
	return &HTTPClient{
		opts: opts,
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Close drops idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type assetRequest struct {
	AssetType       string          `json:"assetType"`
	DisplayName     string          `json:"displayName"`
	Description     string          `json:"description"`
	CreationContext creationContext `json:"creationContext"`
}

type creationContext struct {
	Creator creator `json:"creator"`
}

type creator struct {
	GroupID int64 `json:"groupId,omitempty"`
	UserID  int64 `json:"userId,omitempty"`
}

type operationResponse struct {
	Path        string `json:"path"`
	OperationID string `json:"operationId"`
	Done        bool   `json:"done"`
	Response    *struct {
		AssetID flexInt `json:"assetId"`
	} `json:"response"`
}

// flexInt accepts a JSON number or a decimal string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("asset id %s: %w", b, err)
	}
	*f = flexInt(v)
	return nil
}

// Submit posts the page as a multipart asset creation request.
func (c *HTTPClient) Submit(ctx context.Context, page Page) (string, error) {
	body, contentType, err := c.encode(page)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint+"/assets", body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var resp operationResponse
	if err := c.do(req, page.Key, &resp); err != nil {
		return "", err
	}
	id := resp.OperationID
	if id == "" {
		id = strings.TrimPrefix(resp.Path, "operations/")
	}
	if id == "" {
		return "", fault.New(fault.Transient, "upload.submit", page.Key, "response carries no operation id")
	}
	return id, nil
}

// Operation polls one operation.
func (c *HTTPClient) Operation(ctx context.Context, id string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Endpoint+"/operations/"+id, nil)
	if err != nil {
		return Status{}, fmt.Errorf("failed to create request: %w", err)
	}
	var resp operationResponse
	if err := c.do(req, id, &resp); err != nil {
		return Status{}, err
	}
	st := Status{Done: resp.Done}
	if resp.Response != nil {
		st.AssetID = int64(resp.Response.AssetID)
	}
	return st, nil
}

func (c *HTTPClient) encode(page Page) (io.Reader, string, error) {
	data, err := os.ReadFile(page.Path)
	if err != nil {
		return nil, "", fault.Wrap(fault.Config, "upload.submit", page.Key, err)
	}
	meta, err := json.Marshal(assetRequest{
		AssetType:   c.opts.AssetType,
		DisplayName: page.DisplayName,
		Description: c.opts.Description,
		CreationContext: creationContext{Creator: creator{
			GroupID: c.opts.CreatorGroupID,
			UserID:  c.opts.CreatorUserID,
		}},
	})
	if err != nil {
		return nil, "", fmt.Errorf("encode request metadata: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("request", string(meta)); err != nil {
		return nil, "", err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="fileContent"; filename=%q`, filepath.Base(page.Path)))
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// do sends req and decodes a 200 response into out. Every other status and
// every transport failure is transient.
func (c *HTTPClient) do(req *http.Request, subject string, out any) error {
	op := "upload.poll"
	if req.Method == http.MethodPost {
		op = "upload.submit"
	}
	req.Header.Set("x-api-key", c.opts.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fault.Wrap(fault.Transient, op, subject, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fault.Wrap(fault.Transient, op, subject, fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return fault.New(fault.Transient, op, subject, "status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fault.Wrap(fault.Transient, op, subject, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Client = (*HTTPClient)(nil)
