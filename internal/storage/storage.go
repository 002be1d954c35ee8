// Package storage provides the key-value persistence behind client-held
// state such as the shopping cart and the "confirmation already sent"
// markers. The medium is swappable: an in-memory map for tests and
// short-lived sessions, a JSON file for anything that should survive a
// restart.
package storage

// Store is a flat string-keyed store. Get returns ok=false for missing keys;
// Delete on a missing key is a no-op.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}
