package crypto

// Key holds a symmetric key in memory owned by the vault session.
// Where the platform allows it the key lives on its own locked page, so
// releasing it never unlocks memory shared with other data. Destroy zeroes
// the key before the page is released.
type Key struct {
	b         []byte
	release   func()
	destroyed bool
}

// NewKey copies raw into a new Key and clears raw.
func NewKey(raw []byte) *Key {
	b, release := allocKey()
	k := &Key{b: b, release: release}
	copy(k.b, raw)
	ClearBytes(raw)
	return k
}

// Bytes returns the key material. The slice aliases the key and must not be
// used after Destroy.
func (k *Key) Bytes() []byte {
	if k.Destroyed() {
		return nil
	}
	return k.b
}

// Destroyed reports whether the key has been wiped.
func (k *Key) Destroyed() bool {
	return k == nil || k.destroyed
}

// Destroy zeroes the key material and releases its memory.
func (k *Key) Destroy() {
	if k.Destroyed() {
		return
	}
	ClearBytes(k.b)
	k.release()
	k.b = nil
	k.destroyed = true
}
