package view

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/phishguard/internal/model"
	"github.com/nao1215/phishguard/internal/render"
)

func frag(body string) render.Fragment {
	return render.Fragment{Kind: render.KindResult, Body: body}
}

func TestNew(t *testing.T) {
	t.Parallel()

	v := New()
	for _, name := range Names() {
		r := v.Region(name)
		if r == nil {
			t.Fatalf("region %q missing", name)
		}
		if r.Name() != name {
			t.Errorf("Name() = %q, want %q", r.Name(), name)
		}
		if !r.Fragment().IsZero() {
			t.Errorf("region %q should start empty", name)
		}
	}
	if v.Region("unknown") != nil {
		t.Error("expected nil for unknown region")
	}
	if v.Theme() != model.ThemeLight {
		t.Errorf("Theme() = %q, want light", v.Theme())
	}
	if got := New(WithTheme(model.ThemeDark)).Theme(); got != model.ThemeDark {
		t.Errorf("WithTheme: Theme() = %q, want dark", got)
	}
}

// TestStaleCommitDiscarded tests that an older response cannot overwrite a newer one.
func TestStaleCommitDiscarded(t *testing.T) {
	t.Parallel()

	r := New().Region(Result)
	first := r.Begin()
	second := r.Begin()

	if first.Seq() >= second.Seq() {
		t.Fatalf("tokens not increasing: %d, %d", first.Seq(), second.Seq())
	}
	if !r.Commit(second, frag("second")) {
		t.Fatal("latest token should commit")
	}
	if r.Commit(first, frag("first")) {
		t.Error("stale token should be discarded")
	}
	if got := r.Fragment().Body; got != "second" {
		t.Errorf("Fragment() = %q, want second", got)
	}
	if r.IsLatest(first) || !r.IsLatest(second) {
		t.Error("IsLatest mismatch")
	}
}

// TestStaleBeforeNewer tests a stale token when the newer response has not arrived yet.
func TestStaleBeforeNewer(t *testing.T) {
	t.Parallel()

	r := New().Region(History)
	first := r.Begin()
	_ = r.Begin()

	if r.Commit(first, frag("first")) {
		t.Error("token superseded by a pending reservation should be discarded")
	}
	if !r.Fragment().IsZero() {
		t.Error("region should remain empty")
	}
}

func TestTokenFromOtherRegion(t *testing.T) {
	t.Parallel()

	v := New()
	tok := v.Region(Settings).Begin()
	_ = v.Region(Result).Begin()

	if tok.Region() != Settings {
		t.Errorf("Region() = %q", tok.Region())
	}
	if v.Region(Result).Commit(tok, frag("x")) {
		t.Error("token from another region should not commit")
	}
	if v.Region(Result).Commit(Token{}, frag("x")) {
		t.Error("zero token should not commit")
	}
}

func TestLatestCommitsTwice(t *testing.T) {
	t.Parallel()

	r := New().Region(Notice)
	tok := r.Begin()
	if !r.Commit(tok, frag("a")) || !r.Commit(tok, frag("b")) {
		t.Fatal("latest token should commit repeatedly")
	}
	if r.Fragment().Body != "b" {
		t.Errorf("Fragment() = %q, want b", r.Fragment().Body)
	}
}

func TestObserver(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []Name
	)
	v := New(WithObserver(func(name Name, _ render.Fragment) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, name)
	}))

	v.Region(Result).Set(frag("r"))
	stale := v.Region(History).Begin()
	v.Region(History).Set(frag("h"))
	v.Region(History).Commit(stale, frag("old"))

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]Name{Result, History}, got); diff != "" {
		t.Errorf("observer calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	v := New()
	v.Region(Notice).Set(render.Fragment{Kind: render.KindNotice, Body: "n"})
	v.Region(Result).Set(frag("r"))

	want := []Entry{
		{Name: Result, Fragment: frag("r")},
		{Name: Notice, Fragment: render.Fragment{Kind: render.KindNotice, Body: "n"}},
	}
	if diff := cmp.Diff(want, v.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if v.Fragment(Result).Body != "r" || !v.Fragment("missing").IsZero() {
		t.Error("Fragment() mismatch")
	}
}

func TestCommitTheme(t *testing.T) {
	t.Parallel()

	v := New()
	r := v.Region(Theme)
	old := r.Begin()
	tok := r.Begin()

	if v.CommitTheme(old, model.ThemeDark, frag("dark")) {
		t.Error("stale theme commit should be discarded")
	}
	if v.Theme() != model.ThemeLight {
		t.Error("stale commit must not change the theme attribute")
	}
	if !v.CommitTheme(tok, model.ThemeDark, frag("dark")) {
		t.Fatal("latest theme commit should apply")
	}
	if v.Theme() != model.ThemeDark {
		t.Errorf("Theme() = %q, want dark", v.Theme())
	}
}

// TestConcurrentCommits tests that only the newest reservation survives concurrent use.
func TestConcurrentCommits(t *testing.T) {
	t.Parallel()

	r := New().Region(Result)
	const n = 64

	tokens := make([]Token, n)
	for i := range tokens {
		tokens[i] = r.Begin()
	}

	var wg sync.WaitGroup
	applied := make([]bool, n)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			applied[i] = r.Commit(tokens[i], frag(string(rune('a'+i%26))))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n-1; i++ {
		if applied[i] {
			t.Errorf("token %d should have been discarded", i)
		}
	}
	if !applied[n-1] {
		t.Error("newest token should have committed")
	}
}
