// Package whitelist implements the Whitelist Gate: a loaded name list and
// enable flag answering a single predicate, allowed(name) -> bool.
package whitelist

import (
	"encoding/json"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// defaultPlayers seeds a freshly created whitelist file, matching the
// original deployment's example entries.
var defaultPlayers = []string{"Notch", "Jeb_", "TuNombreAqui"}

// state is the immutable snapshot swapped in atomically on load/reload.
type state struct {
	enabled bool
	players map[string]struct{}
}

// Gate answers allowed(name) against a loaded WhitelistState. It is safe
// for concurrent use; Load replaces the whole snapshot atomically so
// concurrent Allowed calls never observe a half-updated list.
type Gate struct {
	path string
	s    atomic.Pointer[state]
}

// file is the on-disk JSON shape described in spec §6.
type file struct {
	Enabled *bool    `json:"enabled"`
	Players []string `json:"players"`
}

// New loads path, creating it with defaults if absent. Parse failures leave
// the gate permissive (enabled=false, empty list) and are logged; they
// never abort startup.
func New(path string) *Gate {
	g := &Gate{path: path}
	g.Reload()
	return g
}

// Reload re-reads the whitelist file from disk and atomically swaps it in.
// Concurrent Allowed calls either see the old or the new snapshot, never a
// mix — the open question in spec §9 about hot-reload safety is resolved
// this way.
func (g *Gate) Reload() {
	s, err := load(g.path)
	if err != nil {
		zap.L().Warn("whitelist: load failed, falling back to permissive mode",
			zap.String("path", g.path), zap.Error(err))
		s = &state{enabled: false, players: map[string]struct{}{}}
	}
	g.s.Store(s)
}

func load(path string) (*state, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			return nil, writeErr
		}
		return &state{enabled: true, players: toSet(defaultPlayers)}, nil
	}
	if err != nil {
		return nil, err
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	enabled := true
	if f.Enabled != nil {
		enabled = *f.Enabled
	}
	return &state{enabled: enabled, players: toSet(f.Players)}, nil
}

func writeDefault(path string) error {
	enabled := true
	data, err := json.MarshalIndent(file{Enabled: &enabled, Players: defaultPlayers}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func toSet(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[normalize(n)] = struct{}{}
	}
	return m
}

// normalize applies Unicode NFC normalization so that visually identical
// names submitted under different Unicode normal forms compare equal; the
// comparison itself remains a case-sensitive exact match.
func normalize(name string) string {
	return norm.NFC.String(name)
}

// Allowed reports whether name may proceed past the login gate: true when
// the gate is disabled, the player list is empty, or name appears in it.
func (g *Gate) Allowed(name string) bool {
	s := g.s.Load()
	if !s.enabled || len(s.players) == 0 {
		return true
	}
	_, ok := s.players[normalize(name)]
	return ok
}

// Enabled reports the currently loaded enabled flag.
func (g *Gate) Enabled() bool {
	return g.s.Load().enabled
}
