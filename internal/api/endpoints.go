package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/nao1215/phishguard/internal/model"
)

// Bootstrap requests the index page so the server can issue a visitor_id
// cookie into the jar.
func (c *Client) Bootstrap(ctx context.Context) error {
	_, err := c.exchange(ctx, "bootstrap", http.MethodGet, c.routes.Index, nil)
	return err
}

// Scan submits a domain/URL and/or a file. The server answers one result per
// scanned input, either as an object or an array.
func (c *Client) Scan(ctx context.Context, target string, file *Upload) ([]model.ScanResult, error) {
	const op = "scan"

	p, err := c.multipart(op, map[string]string{"url": target}, file)
	if err != nil {
		return nil, err
	}
	r, err := c.exchange(ctx, op, http.MethodPost, c.routes.Scan, p)
	if err != nil {
		return nil, err
	}
	if err := c.decode(op, r, nil); err != nil {
		return nil, err
	}
	return decodeScanResults(op, r.body)
}

func decodeScanResults(op string, body []byte) ([]model.ScanResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []model.ScanResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, &Error{Kind: KindDecode, Op: op, Message: "invalid JSON response", Err: err}
		}
		if len(results) == 0 {
			return nil, &Error{Kind: KindDecode, Op: op, Message: ErrEmptyScanResponse.Error(), Err: ErrEmptyScanResponse}
		}
		return results, nil
	}

	var result model.ScanResult
	if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Message: "invalid JSON response", Err: err}
	}
	return []model.ScanResult{result}, nil
}

// History returns the caller's scan history, newest first as the server orders it.
func (c *Client) History(ctx context.Context) ([]model.HistoryEntry, error) {
	var out []model.HistoryEntry
	if err := c.do(ctx, "history", http.MethodGet, c.routes.History, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearHistory deletes the caller's scan history.
func (c *Client) ClearHistory(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, "clear history", http.MethodPost, c.routes.ClearHistory, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTheme returns the server-side theme.
func (c *Client) GetTheme(ctx context.Context) (model.Theme, error) {
	var out model.ThemePayload
	if err := c.do(ctx, "get theme", http.MethodGet, c.routes.GetTheme, nil, &out); err != nil {
		return "", err
	}
	return out.Theme, nil
}

// SetTheme stores theme and returns the theme the server echoed. An empty
// echo is read as acceptance of theme.
func (c *Client) SetTheme(ctx context.Context, theme model.Theme) (model.Theme, error) {
	const op = "set theme"

	p, err := jsonPayload(model.ThemePayload{Theme: theme})
	if err != nil {
		return "", &Error{Kind: KindDecode, Op: op, Err: err}
	}
	r, err := c.exchange(ctx, op, http.MethodPost, c.routes.SetTheme, p)
	if err != nil {
		return "", err
	}
	if err := c.decode(op, r, nil); err != nil {
		return "", err
	}
	var out model.ThemePayload
	if len(bytes.TrimSpace(r.body)) > 0 {
		if err := json.Unmarshal(r.body, &out); err != nil {
			return "", &Error{Kind: KindDecode, Op: op, Message: "invalid JSON response", Err: err}
		}
	}
	if out.Theme == "" {
		out.Theme = theme
	}
	return out.Theme, nil
}

// Settings returns the server settings, including fields the client does not edit.
func (c *Client) Settings(ctx context.Context) (*model.Settings, error) {
	var out model.Settings
	if err := c.do(ctx, "settings", http.MethodGet, c.routes.Settings, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveSettings posts the complete settings object.
func (c *Client) SaveSettings(ctx context.Context, s *model.Settings) (*SaveSettingsResponse, error) {
	const op = "save settings"

	p, err := jsonPayload(s)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	var out SaveSettingsResponse
	if err := c.do(ctx, op, http.MethodPost, c.routes.SaveSettings, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddDomain adds a trusted domain.
func (c *Client) AddDomain(ctx context.Context, domain string) (*DomainResponse, error) {
	return c.domain(ctx, "add domain", c.routes.AddDomain, domain)
}

// RemoveDomain removes a trusted domain.
func (c *Client) RemoveDomain(ctx context.Context, domain string) (*DomainResponse, error) {
	return c.domain(ctx, "remove domain", c.routes.RemoveDomain, domain)
}

func (c *Client) domain(ctx context.Context, op, path, domain string) (*DomainResponse, error) {
	p, err := jsonPayload(domainRequest{Domain: domain})
	if err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	var out DomainResponse
	if err := c.do(ctx, op, http.MethodPost, path, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCSV posts training data. A nil file sends the form without a file
// part and lets the server report the problem.
func (c *Client) UploadCSV(ctx context.Context, file *Upload) (*UploadResponse, error) {
	const op = "upload csv"

	p, err := c.multipart(op, nil, file)
	if err != nil {
		return nil, err
	}
	var out UploadResponse
	if err := c.do(ctx, op, http.MethodPost, c.routes.UploadCSV, p, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &Error{Kind: KindStatus, Op: op, Status: http.StatusOK, Message: out.Error}
	}
	return &out, nil
}

// Retrain asks the server to retrain its model. A 2xx body carrying an
// error field is still a failure.
func (c *Client) Retrain(ctx context.Context) (*StatusResponse, error) {
	const op = "retrain"

	var out StatusResponse
	if err := c.do(ctx, op, http.MethodPost, c.routes.Retrain, nil, &out); err != nil {
		return nil, err
	}
	if out.Error != "" || out.Status == "error" {
		msg := out.Error
		if msg == "" {
			msg = "retraining failed"
		}
		return nil, &Error{Kind: KindStatus, Op: op, Status: http.StatusOK, Message: msg}
	}
	return &out, nil
}

// AdminHistory returns the full history listing as raw JSON, filtered by f.
func (c *Client) AdminHistory(ctx context.Context, f HistoryFilter) (json.RawMessage, error) {
	const op = "admin history"

	path, err := withQuery(c.routes.AdminHistory, f)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	var out json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func withQuery(path string, f HistoryFilter) (string, error) {
	if f.IsZero() {
		return path, nil
	}
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid route %q: %w", path, err)
	}
	q := u.Query()
	for key, value := range map[string]string{"verdict": f.Verdict, "user_id": f.UserID, "domain": f.Domain} {
		if v := strings.TrimSpace(value); v != "" {
			q.Set(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RemoveHistory deletes the admin history entry at index.
func (c *Client) RemoveHistory(ctx context.Context, index int) (*StatusResponse, error) {
	const op = "remove history"

	p, err := jsonPayload(indexRequest{Index: index})
	if err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	var out StatusResponse
	if err := c.do(ctx, op, http.MethodPost, c.routes.RemoveHistory, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadHistory returns the full history for export.
func (c *Client) DownloadHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	var out downloadResponse
	if err := c.do(ctx, "download history", http.MethodGet, c.routes.DownloadHistory, nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// Login posts the admin password. On success the session cookie is kept in
// the HTTP client's cookie jar.
func (c *Client) Login(ctx context.Context, password string) error {
	const op = "login"

	r, err := c.exchange(ctx, op, http.MethodPost, c.routes.Login, formPayload(url.Values{"password": {password}}))
	if err != nil {
		return err
	}
	// A successful login redirects away from the form; a failed one re-renders it.
	if c.isLoginPath(r.finalPath) {
		return &Error{Kind: KindAuth, Op: op, Status: r.status, Err: ErrLoginRejected}
	}
	return nil
}

// Health returns the server health status.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, "health", http.MethodGet, c.routes.Health, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// multipart builds a multipart/form-data body. Empty fields are skipped.
func (c *Client) multipart(op string, fields map[string]string, file *Upload) (*payload, error) {
	if file != nil && c.maxUploadSize > 0 && int64(len(file.Data)) > c.maxUploadSize {
		return nil, &Error{
			Kind:    KindTransport,
			Op:      op,
			Message: fmt.Sprintf("%s is %d bytes, limit is %d", file.Name, len(file.Data), c.maxUploadSize),
			Err:     ErrUploadTooLarge,
		}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, &Error{Kind: KindTransport, Op: op, Err: err}
		}
	}
	if file != nil {
		part, err := w.CreateFormFile("file", file.Name)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Op: op, Err: err}
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, &Error{Kind: KindTransport, Op: op, Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	return &payload{body: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
