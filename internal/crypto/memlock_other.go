//go:build !linux && !darwin

package crypto

func allocKey() (b []byte, release func()) {
	return make([]byte, KeySize), func() {}
}
