package config

import (
	"fmt"
	"reflect"
	"strings"
)

// Route profile names.
// The two path sets were observed on different PhishGuard deployments;
// which one a server speaks is a deployment choice, not something the
// client can detect.
const (
	// ProfileAdmin is the standalone admin application path set (/admin/...).
	ProfileAdmin = "admin"

	// ProfilePortal is the unified application path set (/__admin_portal__/api/...).
	ProfilePortal = "portal"
)

// Routes is the canonical endpoint contract of a PhishGuard server.
// Every field is a path relative to the server URL and may carry a query string.
type Routes struct {
	Index           string `yaml:"index,omitempty"`
	Scan            string `yaml:"scan,omitempty"`
	History         string `yaml:"history,omitempty"`
	ClearHistory    string `yaml:"clear_history,omitempty"`
	GetTheme        string `yaml:"get_theme,omitempty"`
	SetTheme        string `yaml:"set_theme,omitempty"`
	Settings        string `yaml:"settings,omitempty"`
	SaveSettings    string `yaml:"save_settings,omitempty"`
	AddDomain       string `yaml:"add_domain,omitempty"`
	RemoveDomain    string `yaml:"remove_domain,omitempty"`
	UploadCSV       string `yaml:"upload_csv,omitempty"`
	Retrain         string `yaml:"retrain,omitempty"`
	AdminHistory    string `yaml:"admin_history,omitempty"`
	RemoveHistory   string `yaml:"remove_history,omitempty"`
	DownloadHistory string `yaml:"download_history,omitempty"`
	Login           string `yaml:"login,omitempty"`
	Health          string `yaml:"health,omitempty"`
}

// userRoutes are shared by both profiles.
var userRoutes = Routes{
	Index:    "/",
	Scan:     "/scan",
	History:  "/history?json=1",
	GetTheme: "/get_theme",
	SetTheme: "/toggle_theme",
	Health:   "/_health",
}

// RoutesForProfile returns the path set for a profile name.
func RoutesForProfile(profile string) (Routes, error) {
	r := userRoutes
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case ProfileAdmin:
		r.ClearHistory = "/clear_history"
		r.Settings = "/admin/settings.json"
		r.SaveSettings = "/admin/save"
		r.AddDomain = "/admin/add_domain"
		r.RemoveDomain = "/admin/remove_domain"
		r.UploadCSV = "/admin/upload_csv"
		r.Retrain = "/admin/retrain"
		r.AdminHistory = "/admin/history.json"
		r.RemoveHistory = "/admin/history/remove"
		r.DownloadHistory = "/admin/history/download"
		r.Login = "/login"
	case ProfilePortal:
		const base = "/__admin_portal__"
		r.ClearHistory = "/api/clear_history"
		r.Settings = base + "/api/settings"
		r.SaveSettings = base + "/api/settings/save"
		r.AddDomain = base + "/api/domain/add"
		r.RemoveDomain = base + "/api/domain/remove"
		r.UploadCSV = base + "/api/upload_csv"
		r.Retrain = base + "/api/retrain"
		r.AdminHistory = base + "/api/history"
		r.RemoveHistory = base + "/api/history/remove"
		r.DownloadHistory = base + "/api/history/download"
		r.Login = base + "/login"
	default:
		return Routes{}, fmt.Errorf("%w: %q", ErrUnknownRouteProfile, profile)
	}
	return r, nil
}

// WithOverrides returns a copy of r where every non-empty field of o replaces
// the corresponding field of r.
func (r Routes) WithOverrides(o Routes) Routes {
	dst := reflect.ValueOf(&r).Elem()
	src := reflect.ValueOf(o)
	for i := 0; i < src.NumField(); i++ {
		if v := src.Field(i).String(); v != "" {
			dst.Field(i).SetString(v)
		}
	}
	return r
}

// Validate checks that every route is an absolute path.
func (r Routes) Validate() error {
	v := reflect.ValueOf(r)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		path := v.Field(i).String()
		if !strings.HasPrefix(path, "/") {
			name := strings.Split(t.Field(i).Tag.Get("yaml"), ",")[0]
			return fmt.Errorf("%w: %s=%q", ErrInvalidRoute, name, path)
		}
	}
	return nil
}
