package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1}

func testKey(t *testing.T, password string) *Key {
	t.Helper()
	salt, err := GenerateSalt()
	require.NoError(t, err)
	key, err := DeriveKey(password, salt, testParams)
	require.NoError(t, err)
	t.Cleanup(key.Destroy)
	return key
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	k1, err := DeriveKey("correct-horse", salt, testParams)
	require.NoError(t, err)
	defer k1.Destroy()
	k2, err := DeriveKey("correct-horse", salt, testParams)
	require.NoError(t, err)
	defer k2.Destroy()

	assert.Len(t, k1.Bytes(), KeySize)
	assert.Equal(t, k1.Bytes(), k2.Bytes())

	k3, err := DeriveKey("battery-staple", salt, testParams)
	require.NoError(t, err)
	defer k3.Destroy()
	assert.NotEqual(t, k1.Bytes(), k3.Bytes())
}

func TestDeriveKeyAcceptsAnyPassword(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	for _, pw := range []string{"", " ", "пароль", "\x00\xff"} {
		k, err := DeriveKey(pw, salt, testParams)
		require.NoError(t, err, "password %q", pw)
		k.Destroy()
	}
}

func TestDeriveKeyInvalidSalt(t *testing.T) {
	tests := []struct {
		name string
		salt string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"empty", ""},
		{"truncated", "QUJD="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveKey("pw", tt.salt, testParams)
			require.ErrorIs(t, err, ErrInvalidSalt)
		})
	}
}

func TestGenerateSaltUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		salt, err := GenerateSalt()
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(salt)
		require.NoError(t, err)
		assert.Len(t, raw, SaltSize)
		assert.False(t, seen[salt], "salt repeated")
		seen[salt] = true
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t, "pw")

	for _, plaintext := range [][]byte{
		[]byte("hello"),
		[]byte(`{"passwords":[]}`),
		{},
	} {
		token, err := Encrypt(key, plaintext)
		require.NoError(t, err)

		got, err := Decrypt(key, token)
		require.NoError(t, err)
		assert.Equal(t, len(plaintext), len(got))
		assert.Equal(t, string(plaintext), string(got))
	}
}

func TestEncryptFreshNonce(t *testing.T) {
	key := testKey(t, "pw")

	t1, err := Encrypt(key, []byte("same"))
	require.NoError(t, err)
	t2, err := Encrypt(key, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, t1, t2)

	raw1, _ := base64.StdEncoding.DecodeString(t1)
	raw2, _ := base64.StdEncoding.DecodeString(t2)
	assert.NotEqual(t, raw1[:NonceSize], raw2[:NonceSize])
}

func TestDecryptWrongKey(t *testing.T) {
	key := testKey(t, "right")
	other := testKey(t, "wrong")

	token, err := Encrypt(key, []byte("secret"))
	require.NoError(t, err)

	_, err = Decrypt(other, token)
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestDecryptTampered(t *testing.T) {
	key := testKey(t, "pw")

	token, err := Encrypt(key, []byte("secret payload"))
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)

	for i := range raw {
		tampered := append([]byte(nil), raw...)
		tampered[i] ^= 0x01
		_, err := Decrypt(key, base64.StdEncoding.EncodeToString(tampered))
		require.ErrorIs(t, err, ErrAuthFailed, "byte %d", i)
	}

	_, err = Decrypt(key, base64.StdEncoding.EncodeToString(raw[:len(raw)-1]))
	require.ErrorIs(t, err, ErrAuthFailed)
}

func TestDecryptMalformed(t *testing.T) {
	key := testKey(t, "pw")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!!"},
		{"too short", base64.StdEncoding.EncodeToString(make([]byte, NonceSize+TagSize-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(key, tt.token)
			require.ErrorIs(t, err, ErrInvalidCiphertext)
		})
	}
}

func TestKeyDestroy(t *testing.T) {
	raw := []byte("0123456789abcdef0123456789abcdef")
	key := NewKey(raw)

	assert.Equal(t, make([]byte, len(raw)), raw, "source must be cleared")
	backing := key.Bytes()
	assert.Equal(t, "0123456789abcdef0123456789abcdef", string(backing))

	// The memory may be unmapped by Destroy, so look at it just before
	var wiped []byte
	release := key.release
	key.release = func() {
		wiped = append([]byte(nil), backing...)
		release()
	}

	key.Destroy()
	assert.True(t, key.Destroyed())
	assert.Nil(t, key.Bytes())
	assert.Equal(t, make([]byte, KeySize), wiped, "backing memory must be zeroed")

	_, err := Encrypt(key, []byte("x"))
	require.ErrorIs(t, err, ErrKeyDestroyed)

	// Destroy is idempotent
	key.Destroy()
}

func TestClearBytes(t *testing.T) {
	b := []byte("sensitive")
	ClearBytes(b)
	assert.Equal(t, make([]byte, 9), b)
}

func TestConstantTimeCompare(t *testing.T) {
	assert.True(t, ConstantTimeCompare([]byte("abc"), []byte("abc")))
	assert.False(t, ConstantTimeCompare([]byte("abc"), []byte("abd")))
	assert.False(t, ConstantTimeCompare([]byte("abc"), []byte("ab")))
}
