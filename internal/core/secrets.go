package core

import (
	"fmt"

	"github.com/illarion/kookie/internal/secrets"
)

// field selects one kind's slice inside a collection.
type field[T secrets.Entry] func(*secrets.Collection) *[]T

var (
	passwords     field[secrets.Password]     = func(c *secrets.Collection) *[]secrets.Password { return &c.Passwords }
	apiKeys       field[secrets.APIKey]       = func(c *secrets.Collection) *[]secrets.APIKey { return &c.APIKeys }
	notes         field[secrets.Note]         = func(c *secrets.Collection) *[]secrets.Note { return &c.Notes }
	dbCredentials field[secrets.DBCredential] = func(c *secrets.Collection) *[]secrets.DBCredential { return &c.DBCredentials }
	tokens        field[secrets.Token]        = func(c *secrets.Collection) *[]secrets.Token { return &c.Tokens }
)

// commit persists next and only then makes it the in-memory state, so a
// failed save leaves memory and disk in agreement.
func (v *Vault) commit(next secrets.Collection) error {
	if !v.IsUnlocked() {
		return ErrWrongPassword
	}
	if err := v.persist(v.key, v.salt, v.createdAt, next); err != nil {
		return err
	}
	v.data = next
	return nil
}

func add[T secrets.Entry](v *Vault, f field[T], entry T) error {
	if secrets.HasName(*f(&v.data), entry.EntryName()) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, entry.EntryName())
	}

	next := v.data.Clone()
	items := f(&next)
	*items = append(*items, entry)
	return v.commit(next)
}

func get[T secrets.Entry](v *Vault, f field[T], idOrName string) (T, bool) {
	return secrets.Find(*f(&v.data), idOrName)
}

func remove[T secrets.Entry](v *Vault, f field[T], idOrName string) (T, error) {
	var zero T
	i := secrets.Index(*f(&v.data), idOrName)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s", ErrSecretNotFound, idOrName)
	}

	next := v.data.Clone()
	items := f(&next)
	removed := (*items)[i]
	*items = secrets.Remove(*items, i)
	if err := v.commit(next); err != nil {
		return zero, err
	}
	return removed, nil
}

// === Password Operations ===

// AddPassword stores p and saves the vault. It fails with ErrDuplicateName
// if a password with the same name exists; other kinds may reuse the name.
func (v *Vault) AddPassword(p secrets.Password) error { return add(v, passwords, p) }

// GetPassword finds a password by ID, or by name when no ID matches.
func (v *Vault) GetPassword(idOrName string) (secrets.Password, bool) {
	return get(v, passwords, idOrName)
}

// DeletePassword removes a password, saves the vault and returns the removed
// entry. It fails with ErrSecretNotFound when nothing matches.
func (v *Vault) DeletePassword(idOrName string) (secrets.Password, error) {
	return remove(v, passwords, idOrName)
}

// === API Key Operations ===

// AddAPIKey stores k and saves the vault.
func (v *Vault) AddAPIKey(k secrets.APIKey) error { return add(v, apiKeys, k) }

// GetAPIKey finds an API key by ID or name.
func (v *Vault) GetAPIKey(idOrName string) (secrets.APIKey, bool) {
	return get(v, apiKeys, idOrName)
}

// DeleteAPIKey removes an API key and returns it.
func (v *Vault) DeleteAPIKey(idOrName string) (secrets.APIKey, error) {
	return remove(v, apiKeys, idOrName)
}

// === Note Operations ===

// AddNote stores n and saves the vault.
func (v *Vault) AddNote(n secrets.Note) error { return add(v, notes, n) }

// GetNote finds a note by ID or name.
func (v *Vault) GetNote(idOrName string) (secrets.Note, bool) {
	return get(v, notes, idOrName)
}

// DeleteNote removes a note and returns it.
func (v *Vault) DeleteNote(idOrName string) (secrets.Note, error) {
	return remove(v, notes, idOrName)
}

// === DB Credential Operations ===

// AddDBCredential stores c and saves the vault.
func (v *Vault) AddDBCredential(c secrets.DBCredential) error { return add(v, dbCredentials, c) }

// GetDBCredential finds a database credential by ID or name.
func (v *Vault) GetDBCredential(idOrName string) (secrets.DBCredential, bool) {
	return get(v, dbCredentials, idOrName)
}

// DeleteDBCredential removes a database credential and returns it.
func (v *Vault) DeleteDBCredential(idOrName string) (secrets.DBCredential, error) {
	return remove(v, dbCredentials, idOrName)
}

// === Token Operations ===

// AddToken stores t and saves the vault.
func (v *Vault) AddToken(t secrets.Token) error { return add(v, tokens, t) }

// GetToken finds a token by ID or name.
func (v *Vault) GetToken(idOrName string) (secrets.Token, bool) {
	return get(v, tokens, idOrName)
}

// DeleteToken removes a token and returns it.
func (v *Vault) DeleteToken(idOrName string) (secrets.Token, error) {
	return remove(v, tokens, idOrName)
}

// === Kind-dispatched Operations ===

// Get looks up an entry of any kind.
func (v *Vault) Get(kind secrets.Kind, idOrName string) (secrets.Entry, bool) {
	var (
		e  secrets.Entry
		ok bool
	)
	switch kind {
	case secrets.KindPassword:
		e, ok = v.GetPassword(idOrName)
	case secrets.KindAPIKey:
		e, ok = v.GetAPIKey(idOrName)
	case secrets.KindNote:
		e, ok = v.GetNote(idOrName)
	case secrets.KindDBCredential:
		e, ok = v.GetDBCredential(idOrName)
	case secrets.KindToken:
		e, ok = v.GetToken(idOrName)
	}
	if !ok {
		return nil, false
	}
	return e, true
}

// Delete removes an entry of any kind.
func (v *Vault) Delete(kind secrets.Kind, idOrName string) (secrets.Entry, error) {
	switch kind {
	case secrets.KindPassword:
		return v.DeletePassword(idOrName)
	case secrets.KindAPIKey:
		return v.DeleteAPIKey(idOrName)
	case secrets.KindNote:
		return v.DeleteNote(idOrName)
	case secrets.KindDBCredential:
		return v.DeleteDBCredential(idOrName)
	case secrets.KindToken:
		return v.DeleteToken(idOrName)
	}
	return nil, fmt.Errorf("unknown secret kind %v", kind)
}
