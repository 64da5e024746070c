package api

import "github.com/nao1215/phishguard/internal/model"

// Upload is a file attached to a multipart request.
type Upload struct {
	// Name is the file name sent to the server.
	Name string
	Data []byte
}

// StatusResponse is the generic {"status": ...} acknowledgement.
// Retrain answers {"status":"error","error":...} on failure.
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SaveSettingsResponse is the save-settings acknowledgement.
type SaveSettingsResponse struct {
	Status   string          `json:"status"`
	Settings *model.Settings `json:"settings,omitempty"`
}

// DomainResponse acknowledges a trusted-domain change.
type DomainResponse struct {
	Status         string   `json:"status"`
	TrustedDomains []string `json:"trusted_domains"`
}

// UploadResponse acknowledges a training CSV upload.
type UploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`
}

// HealthResponse is the health endpoint body.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// HistoryFilter narrows the admin history listing. Empty fields are omitted.
type HistoryFilter struct {
	Verdict string
	UserID  string
	Domain  string
}

// IsZero reports whether no filter is set.
func (f HistoryFilter) IsZero() bool {
	return f.Verdict == "" && f.UserID == "" && f.Domain == ""
}

type domainRequest struct {
	Domain string `json:"domain"`
}

type indexRequest struct {
	Index int `json:"index"`
}

type downloadResponse struct {
	History []model.HistoryEntry `json:"history"`
}
