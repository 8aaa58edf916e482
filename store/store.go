package store

import "github.com/iov-one/quorum"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = quorum.ReadOnlyKVStore
type KVStore = quorum.KVStore
type CacheableKVStore = quorum.CacheableKVStore
type KVCacheWrap = quorum.KVCacheWrap

// EmptyKVStore never holds any data and silently accepts writes. It serves
// as the bottom layer for an in-memory cache stack.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

// Get always returns nil
func (EmptyKVStore) Get(key []byte) []byte { return nil }

// Has always returns false
func (EmptyKVStore) Has(key []byte) bool { return false }

// Set is a noop
func (EmptyKVStore) Set(key, value []byte) {}

// Delete is a noop
func (EmptyKVStore) Delete(key []byte) {}
