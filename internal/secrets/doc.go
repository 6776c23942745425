// Package secrets defines the secret kinds stored in a vault and the
// collection that holds them.
//
// Names are unique within a kind but may repeat across kinds. Lookups accept
// either an entry ID or a name; an ID match always wins over a name match.
package secrets
