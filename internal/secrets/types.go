package secrets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is implemented by every secret kind.
type Entry interface {
	EntryID() string
	EntryName() string
}

// Meta holds the fields shared by all secret kinds.
type Meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is set at creation and not refreshed afterwards.
	UpdatedAt time.Time `json:"updated_at"`
}

func newMeta(name string) Meta {
	now := time.Now().UTC()
	return Meta{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EntryID returns the generated UUID.
func (m Meta) EntryID() string { return m.ID }

// EntryName returns the user-chosen name.
func (m Meta) EntryName() string { return m.Name }

// Opt returns nil for an empty string and a pointer to s otherwise.
func Opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Password is a login secret.
type Password struct {
	Meta
	Description *string `json:"description"`
	Username    *string `json:"username"`
	Password    string  `json:"password"`
	URL         *string `json:"url"`
}

// NewPassword creates a password with a fresh ID and timestamps.
func NewPassword(name, password string) Password {
	return Password{Meta: newMeta(name), Password: password}
}

// APIKey is an API key for a service.
type APIKey struct {
	Meta
	Description *string `json:"description"`
	Key         string  `json:"key"`
	Service     *string `json:"service"`
}

// NewAPIKey creates an API key entry.
func NewAPIKey(name, key string) APIKey {
	return APIKey{Meta: newMeta(name), Key: key}
}

// Note is free-form private text.
type Note struct {
	Meta
	Content string `json:"content"`
}

// NewNote creates a note.
func NewNote(name, content string) Note {
	return Note{Meta: newMeta(name), Content: content}
}

// DBCredential holds database connection details.
type DBCredential struct {
	Meta
	Description *string `json:"description"`
	Host        string  `json:"host"`
	Port        *uint16 `json:"port"`
	Database    string  `json:"database"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	// DBType is an engine hint such as postgres, mysql or mongodb.
	DBType *string `json:"db_type"`
}

// NewDBCredential creates a credential with no port or type set, so the
// postgres defaults apply.
func NewDBCredential(name, host, database, username, password string) DBCredential {
	return DBCredential{
		Meta:     newMeta(name),
		Host:     host,
		Database: database,
		Username: username,
		Password: password,
	}
}

const DefaultDBType = "postgres"

// DefaultPort returns the conventional port for a database type.
func DefaultPort(dbType string) uint16 {
	switch dbType {
	case "postgres", "postgresql":
		return 5432
	case "mysql":
		return 3306
	case "mongodb":
		return 27017
	default:
		return 5432
	}
}

// ConnectionString builds a connection URI. The scheme is the database type,
// postgres when unset. Credentials are not escaped.
func (c DBCredential) ConnectionString() string {
	dbType := DefaultDBType
	if c.DBType != nil {
		dbType = *c.DBType
	}
	port := DefaultPort(dbType)
	if c.Port != nil {
		port = *c.Port
	}

	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", dbType, c.Username, c.Password, c.Host, port, c.Database)
}

// Token is a bearer, OAuth or JWT token.
type Token struct {
	Meta
	Description *string    `json:"description"`
	Token       string     `json:"token"`
	TokenType   *string    `json:"token_type"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// NewToken creates a token entry.
func NewToken(name, token string) Token {
	return Token{Meta: newMeta(name), Token: token}
}

// IsExpired reports whether the token has an expiry in the past.
func (t Token) IsExpired() bool {
	return t.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the token expired strictly before now.
// Tokens without an expiry never expire.
func (t Token) IsExpiredAt(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}
