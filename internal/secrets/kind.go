package secrets

import (
	"fmt"
	"strings"
)

// Kind identifies one of the five secret kinds.
type Kind int

const (
	KindPassword Kind = iota
	KindAPIKey
	KindNote
	KindDBCredential
	KindToken
)

// Kinds lists every kind in collection order.
var Kinds = []Kind{KindPassword, KindAPIKey, KindNote, KindDBCredential, KindToken}

func (k Kind) String() string {
	switch k {
	case KindPassword:
		return "password"
	case KindAPIKey:
		return "api-key"
	case KindNote:
		return "note"
	case KindDBCredential:
		return "db-credential"
	case KindToken:
		return "token"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a user supplied kind name, accepting common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "password", "passwords", "pw", "login":
		return KindPassword, nil
	case "api-key", "apikey", "api-keys", "api_key", "key":
		return KindAPIKey, nil
	case "note", "notes":
		return KindNote, nil
	case "db-credential", "db", "database", "db-credentials", "dbcred":
		return KindDBCredential, nil
	case "token", "tokens":
		return KindToken, nil
	}
	return 0, fmt.Errorf("unknown secret kind %q", s)
}
