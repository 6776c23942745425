package secrets

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Collection holds every secret of a vault, one insertion-ordered slice per
// kind.
type Collection struct {
	Passwords     []Password     `json:"passwords"`
	APIKeys       []APIKey       `json:"api_keys"`
	Notes         []Note         `json:"notes"`
	DBCredentials []DBCredential `json:"db_credentials"`
	Tokens        []Token        `json:"tokens"`
}

// NewCollection returns an empty collection.
func NewCollection() Collection {
	var c Collection
	c.Normalize()
	return c
}

// Normalize replaces missing slices with empty ones.
func (c *Collection) Normalize() {
	if c.Passwords == nil {
		c.Passwords = []Password{}
	}
	if c.APIKeys == nil {
		c.APIKeys = []APIKey{}
	}
	if c.Notes == nil {
		c.Notes = []Note{}
	}
	if c.DBCredentials == nil {
		c.DBCredentials = []DBCredential{}
	}
	if c.Tokens == nil {
		c.Tokens = []Token{}
	}
}

// Clone returns a collection whose slices can be modified without affecting c.
// Entries are values; their optional fields are shared and never mutated.
func (c Collection) Clone() Collection {
	out := Collection{
		Passwords:     slices.Clone(c.Passwords),
		APIKeys:       slices.Clone(c.APIKeys),
		Notes:         slices.Clone(c.Notes),
		DBCredentials: slices.Clone(c.DBCredentials),
		Tokens:        slices.Clone(c.Tokens),
	}
	out.Normalize()
	return out
}

// Len returns the total number of entries.
func (c Collection) Len() int {
	return len(c.Passwords) + len(c.APIKeys) + len(c.Notes) + len(c.DBCredentials) + len(c.Tokens)
}

// Count returns the number of entries of one kind.
func (c Collection) Count(k Kind) int {
	return len(c.Entries(k))
}

// Entries returns the entries of one kind as the Entry interface.
func (c Collection) Entries(k Kind) []Entry {
	switch k {
	case KindPassword:
		return asEntries(c.Passwords)
	case KindAPIKey:
		return asEntries(c.APIKeys)
	case KindNote:
		return asEntries(c.Notes)
	case KindDBCredential:
		return asEntries(c.DBCredentials)
	case KindToken:
		return asEntries(c.Tokens)
	}
	return nil
}

func asEntries[T Entry](items []T) []Entry {
	out := make([]Entry, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Summary lists every entry as "kind/name id", one per line, without any
// secret values. Lines are grouped by kind and sorted by name.
func (c Collection) Summary() string {
	var b strings.Builder
	for _, k := range Kinds {
		entries := c.Entries(k)
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].EntryName() < entries[j].EntryName()
		})
		for _, e := range entries {
			fmt.Fprintf(&b, "%s/%s %s\n", k, e.EntryName(), e.EntryID())
		}
	}
	return b.String()
}

// Index returns the position of the first entry whose ID equals idOrName,
// else the first whose name equals it, else -1.
func Index[T Entry](items []T, idOrName string) int {
	for i, item := range items {
		if item.EntryID() == idOrName {
			return i
		}
	}
	for i, item := range items {
		if item.EntryName() == idOrName {
			return i
		}
	}
	return -1
}

// Find returns the entry matched by Index.
func Find[T Entry](items []T, idOrName string) (T, bool) {
	var zero T
	i := Index(items, idOrName)
	if i < 0 {
		return zero, false
	}
	return items[i], true
}

// HasName reports whether any entry uses name.
func HasName[T Entry](items []T, name string) bool {
	return slices.ContainsFunc(items, func(item T) bool {
		return item.EntryName() == name
	})
}

// Remove returns a new slice without the entry at i.
func Remove[T Entry](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
