package view

import (
	"sync"

	"github.com/nao1215/phishguard/internal/render"
)

// Token is a reservation on a region, issued by Begin.
type Token struct {
	region Name
	seq    uint64
}

// Region returns the name of the region the token was issued for.
func (t Token) Region() Name {
	return t.region
}

// Seq returns the sequence number; later reservations have larger numbers.
func (t Token) Seq() uint64 {
	return t.seq
}

// Region is one output target with its own sequence counter.
type Region struct {
	name   Name
	notify func(Name, render.Fragment)

	mu       sync.Mutex
	seq      uint64
	fragment render.Fragment
}

// Name returns the region name.
func (r *Region) Name() Name {
	return r.name
}

// Begin reserves the region and returns a token newer than all previous ones.
func (r *Region) Begin() Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return Token{region: r.name, seq: r.seq}
}

// IsLatest reports whether tok is the newest reservation on the region.
func (r *Region) IsLatest(tok Token) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest(tok)
}

func (r *Region) latest(tok Token) bool {
	return tok.region == r.name && tok.seq != 0 && tok.seq == r.seq
}

// Commit replaces the fragment if tok is the latest reservation.
// It reports whether the fragment was applied; a stale token is discarded.
// The latest token may commit more than once.
func (r *Region) Commit(tok Token, f render.Fragment) bool {
	return r.commit(tok, f, nil)
}

func (r *Region) commit(tok Token, f render.Fragment, apply func()) bool {
	r.mu.Lock()
	if !r.latest(tok) {
		r.mu.Unlock()
		return false
	}
	if apply != nil {
		apply()
	}
	r.fragment = f
	r.mu.Unlock()

	if r.notify != nil {
		r.notify(r.name, f)
	}
	return true
}

// Set reserves the region and commits f in one step.
func (r *Region) Set(f render.Fragment) {
	r.Commit(r.Begin(), f)
}

// Fragment returns the last committed fragment.
func (r *Region) Fragment() render.Fragment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fragment
}
