package secrets

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPrefersID(t *testing.T) {
	a := NewNote("first", "a")
	b := NewNote("second", "b")
	// b's name collides with a's id
	b.Name = a.ID
	items := []Note{b, a}

	assert.Equal(t, 1, Index(items, a.ID), "id match wins over an earlier name match")
	assert.Equal(t, 0, Index(items, b.ID))
	assert.Equal(t, 1, Index(items, "first"))
	assert.Equal(t, -1, Index(items, "missing"))
}

func TestFindAndHasName(t *testing.T) {
	items := []APIKey{NewAPIKey("stripe", "sk_1"), NewAPIKey("openai", "sk_2")}

	got, ok := Find(items, "openai")
	require.True(t, ok)
	assert.Equal(t, "sk_2", got.Key)

	got, ok = Find(items, items[0].ID)
	require.True(t, ok)
	assert.Equal(t, "stripe", got.Name)

	_, ok = Find(items, "github")
	assert.False(t, ok)

	assert.True(t, HasName(items, "stripe"))
	assert.False(t, HasName(items, items[0].ID))
}

func TestRemoveDoesNotAlias(t *testing.T) {
	items := []Note{NewNote("a", "1"), NewNote("b", "2"), NewNote("c", "3")}
	out := Remove(items, 1)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "c", out[1].Name)
	assert.Equal(t, "b", items[1].Name, "input must be unchanged")
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewCollection()
	c.Passwords = append(c.Passwords, NewPassword("gh", "x"))

	clone := c.Clone()
	clone.Passwords = append(clone.Passwords, NewPassword("gl", "y"))
	clone.Passwords[0].Password = "changed"

	assert.Len(t, c.Passwords, 1)
	assert.Equal(t, "x", c.Passwords[0].Password)
	assert.NotNil(t, clone.Tokens)
}

func TestCollectionMissingSequencesDefaultEmpty(t *testing.T) {
	var c Collection
	require.NoError(t, json.Unmarshal([]byte(`{"notes":[{"id":"1","name":"n","content":"c","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}]}`), &c))
	c.Normalize()

	assert.Len(t, c.Notes, 1)
	assert.NotNil(t, c.Passwords)
	assert.NotNil(t, c.APIKeys)
	assert.NotNil(t, c.DBCredentials)
	assert.NotNil(t, c.Tokens)
	assert.Equal(t, 1, c.Len())

	data, err := json.Marshal(NewCollection())
	require.NoError(t, err)
	assert.JSONEq(t, `{"passwords":[],"api_keys":[],"notes":[],"db_credentials":[],"tokens":[]}`, string(data))
}

func TestSummaryHasNoValues(t *testing.T) {
	c := NewCollection()
	c.Passwords = append(c.Passwords, NewPassword("zeta", "hunter2"), NewPassword("alpha", "s3cret"))
	c.Tokens = append(c.Tokens, NewToken("ci", "tok_value"))

	s := c.Summary()
	lines := strings.Split(strings.TrimSpace(s), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "password/alpha "))
	assert.True(t, strings.HasPrefix(lines[1], "password/zeta "))
	assert.True(t, strings.HasPrefix(lines[2], "token/ci "))
	assert.NotContains(t, s, "hunter2")
	assert.NotContains(t, s, "tok_value")

	assert.Equal(t, 2, c.Count(KindPassword))
	assert.Equal(t, 0, c.Count(KindNote))
}
