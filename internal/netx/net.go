// Package netx holds small HTTP helpers used by the CLI.
package netx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
)

// UploadedFile is the server's description of a stored upload.
type UploadedFile struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
}

// UploadMultipart posts body as the "file" field of a multipart form to url
// and decodes the JSON reply. Non-200 replies become errors carrying the
// server's message when one is present.
func UploadMultipart(ctx context.Context, hc *http.Client, url, filename, contentType string, body io.Reader) (*UploadedFile, error) {
	if hc == nil {
		hc = http.DefaultClient
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Message string `json:"message"`
		}
		b, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(b, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("upload failed: %s: %s", resp.Status, e.Message)
		}
		return nil, fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}

	var out UploadedFile
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("upload: decode reply: %w", err)
	}
	return &out, nil
}
