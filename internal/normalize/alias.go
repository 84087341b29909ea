package normalize

import (
	"fmt"
	"strings"
)

// DefaultAliases is the spelling-correction table for the Bucharest match log.
func DefaultAliases() map[string]string {
	return map[string]string{
		"Astrals": "Astralis",
		"astrals": "Astralis",
		"3DMAX":   "3Dmax",
		"3dmax":   "3Dmax",
		"BIG":     "Big",
		"big":     "Big",
	}
}

// AliasTable resolves team-name variants to one canonical spelling. Lookups
// are case-insensitive and ignore surrounding whitespace. The zero value
// resolves every name to its trimmed self.
type AliasTable struct {
	canon map[string]string // folded alias -> canonical
}

// NewAliasTable builds an immutable table from alias -> canonical pairs.
// Chains (a -> b, b -> c) are flattened so resolution is idempotent; cycles
// and aliases that fold to the same key with different targets are rejected.
func NewAliasTable(aliases map[string]string) (AliasTable, error) {
	raw := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		key := fold(alias)
		canonical = strings.TrimSpace(canonical)
		if key == "" || canonical == "" {
			return AliasTable{}, fmt.Errorf("alias %q -> %q: empty name", alias, canonical)
		}
		if prev, ok := raw[key]; ok && prev != canonical {
			return AliasTable{}, fmt.Errorf("alias %q maps to both %q and %q", alias, prev, canonical)
		}
		raw[key] = canonical
	}

	canon := make(map[string]string, len(raw))
	for key := range raw {
		seen := map[string]bool{key: true}
		target := raw[key]
		for {
			next, ok := raw[fold(target)]
			if !ok || next == target {
				break
			}
			if seen[fold(target)] {
				return AliasTable{}, fmt.Errorf("alias cycle through %q", target)
			}
			seen[fold(target)] = true
			target = next
		}
		canon[key] = target
	}
	return AliasTable{canon: canon}, nil
}

// MustAliasTable is NewAliasTable for static tables known to be valid.
func MustAliasTable(aliases map[string]string) AliasTable {
	t, err := NewAliasTable(aliases)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the canonical spelling of name.
func (t AliasTable) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if c, ok := t.canon[fold(name)]; ok {
		return c
	}
	return name
}

// Len is the number of distinct folded aliases.
func (t AliasTable) Len() int { return len(t.canon) }

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
