// Package subst implements the substitution table handed to the harness.
// Tokens are registered in order during configuration and frozen before the
// harness starts expanding test RUN lines against them.
package subst

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrFrozen is returned by Register once the registry has been frozen.
var ErrFrozen = errors.New("substitution registry is frozen")

// Substitution pairs a token with the command string it expands to.
type Substitution struct {
	Token       string `yaml:"token"`
	Replacement string `yaml:"replacement"`
}

// Registry records substitutions in registration order. Registering a token
// twice is allowed; the later registration wins on lookup and expansion.
type Registry struct {
	entries []Substitution
	frozen  bool
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a substitution. Tokens must be non-empty.
func (r *Registry) Register(token, replacement string) error {
	if r.frozen {
		return fmt.Errorf("register %q: %w", token, ErrFrozen)
	}
	if token == "" {
		return errors.New("substitution token must be non-empty")
	}
	r.entries = append(r.entries, Substitution{Token: token, Replacement: replacement})
	return nil
}

// Freeze makes the registry read-only. Configuration is built once at
// harness startup and immutable thereafter.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Lookup returns the effective replacement for token, honoring last-wins.
func (r *Registry) Lookup(token string) (string, bool) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Token == token {
			return r.entries[i].Replacement, true
		}
	}
	return "", false
}

// Len returns the number of raw registrations, shadowed entries included.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Pairs returns the effective table: one entry per token with the last
// registration winning, ordered by each token's first registration.
func (r *Registry) Pairs() []Substitution {
	seen := make(map[string]int, len(r.entries))
	pairs := make([]Substitution, 0, len(r.entries))
	for _, e := range r.entries {
		if i, ok := seen[e.Token]; ok {
			pairs[i].Replacement = e.Replacement
			continue
		}
		seen[e.Token] = len(pairs)
		pairs = append(pairs, e)
	}
	return pairs
}

// Expand replaces every known token in line in a single left-to-right pass
// over the original text. At each position longer tokens win, so %test_dir
// is never clobbered by a shorter prefix token, and text introduced by a
// replacement is never re-expanded.
func (r *Registry) Expand(line string) string {
	pairs := r.Pairs()
	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].Token) > len(pairs[j].Token)
	})

	var out strings.Builder
	for i := 0; i < len(line); {
		matched := false
		for _, p := range pairs {
			if strings.HasPrefix(line[i:], p.Token) {
				out.WriteString(p.Replacement)
				i += len(p.Token)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(line[i])
			i++
		}
	}
	return out.String()
}
