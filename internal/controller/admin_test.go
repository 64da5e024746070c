package controller

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/phishguard/internal/api"
	"github.com/nao1215/phishguard/internal/render"
	"github.com/nao1215/phishguard/internal/view"
)

const adminBase = "/__admin_portal__"

func adminServer() *fakeServer {
	srv := newFakeServer()
	srv.handle("GET "+adminBase+"/api/history", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, []map[string]any{{"verdict": "phishing", "user_id": "abc", "domain": "x.example"}})
	})
	srv.handle("POST "+adminBase+"/api/history/remove", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "removed"})
	})
	srv.handle("GET "+adminBase+"/api/history/download", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"history": []map[string]any{{"verdict": "safe", "domain": "y.example"}}})
	})
	return srv
}

func TestAdminHistory(t *testing.T) {
	t.Parallel()

	srv := adminServer()
	c, v := newTestController(t, newClient(t, srv))

	raw, err := c.AdminHistory(context.Background(), api.HistoryFilter{Verdict: " Phishing ", Domain: "X.example"})
	if err != nil {
		t.Fatalf("AdminHistory() error = %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected raw JSON")
	}

	q, _ := url.ParseQuery(srv.calls(adminBase + "/api/history")[0].Query) //nolint:errcheck // encoded by client
	if q.Get("verdict") != "phishing" || q.Get("domain") != "x.example" || q.Has("user_id") {
		t.Errorf("unexpected query %v", q)
	}

	frag := v.Fragment(view.AdminHistory)
	if frag.Kind != render.KindAdminHistory || !strings.Contains(frag.Body, "\n  {") {
		t.Errorf("expected indented JSON, got %+v", frag)
	}
}

func TestRemoveHistoryEntry(t *testing.T) {
	t.Parallel()

	t.Run("posts index and refreshes with last filter", func(t *testing.T) {
		t.Parallel()

		srv := adminServer()
		c, _ := newTestController(t, newClient(t, srv))

		if _, err := c.AdminHistory(context.Background(), api.HistoryFilter{UserID: "abc"}); err != nil {
			t.Fatal(err)
		}
		if err := c.RemoveHistoryEntry(context.Background(), 3); err != nil {
			t.Fatalf("RemoveHistoryEntry() error = %v", err)
		}

		removes := srv.calls(adminBase + "/api/history/remove")
		if len(removes) != 1 {
			t.Fatalf("expected one remove, got %d", len(removes))
		}
		if diff := cmp.Diff(map[string]any{"index": float64(3)}, decodeBody(t, removes[0].Body)); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
		lists := srv.calls(adminBase + "/api/history")
		if len(lists) != 2 || lists[1].Query != "user_id=abc" {
			t.Errorf("expected refresh with last filter, got %+v", lists)
		}
	})

	t.Run("negative index is rejected", func(t *testing.T) {
		t.Parallel()

		srv := adminServer()
		c, _ := newTestController(t, newClient(t, srv))
		if err := c.RemoveHistoryEntry(context.Background(), -1); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("expected ErrInvalidIndex, got %v", err)
		}
		if srv.total() != 0 {
			t.Error("expected no requests")
		}
	})
}

func TestDownloadHistory(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, newClient(t, adminServer()))
	entries, err := c.DownloadHistory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Domain != "y.example" {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	loginPage := `<html><body><form method="post"><input name="password"></form>Incorrect password</body></html>`
	srv := newFakeServer()
	srv.handle("POST "+adminBase+"/login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("password") == "admin123" {
			http.Redirect(w, r, adminBase+"/", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(loginPage)) //nolint:errcheck // test server
	})
	srv.handle("GET "+adminBase+"/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>dashboard</html>")) //nolint:errcheck // test server
	})
	c, v := newTestController(t, newClient(t, srv))

	if err := c.Login(context.Background(), ""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
	if srv.total() != 0 {
		t.Error("empty password must not be sent")
	}

	if err := c.Login(context.Background(), "wrong"); !errors.Is(err, api.ErrLoginRejected) {
		t.Errorf("expected ErrLoginRejected, got %v", err)
	}
	if !strings.Contains(v.Fragment(view.Notice).Body, "incorrect admin password") {
		t.Errorf("expected rejection notice, got %s", v.Fragment(view.Notice).Body)
	}

	if err := c.Login(context.Background(), "admin123"); err != nil {
		t.Errorf("Login() error = %v", err)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newFakeServer()
	srv.handle("GET /_health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok", "time": "2026-10-14T08:00:00Z"})
	})
	c, v := newTestController(t, newClient(t, srv))

	h, err := c.Health(context.Background())
	if err != nil || h.Status != "ok" {
		t.Fatalf("Health() = %+v, %v", h, err)
	}
	if !strings.Contains(v.Fragment(view.Notice).Body, "ok at 2026-10-14T08:00:00Z") {
		t.Errorf("unexpected notice %s", v.Fragment(view.Notice).Body)
	}
}
