//go:build linux || darwin

package crypto

import "golang.org/x/sys/unix"

// allocKey maps a private anonymous page for one key and tries to lock it.
// Unmapping the page drops its lock, and no other allocation shares it. If
// the mapping fails the key falls back to the Go heap, unlocked.
func allocKey() (b []byte, release func()) {
	page := unix.Getpagesize()
	size := (KeySize + page - 1) / page * page
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return make([]byte, KeySize), func() {}
	}
	// Refused in some containers; the key is still zeroed on release
	_ = unix.Mlock(mem)
	return mem[:KeySize:KeySize], func() { _ = unix.Munmap(mem) }
}
