package store

import (
	"bytes"

	"github.com/google/btree"
)

// defaultDegree is the branching factor used for all btrees in this package.
const defaultDegree = 8

// BTreeCacheable adds a simple btree-based CacheWrap
// strategy to a KVStore
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore)
}

// MemStore returns a simple implementation useful for tests.
// There is no persistence here....
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{})
}

///////////////////////////////////////////////
// Actual CacheWrap implementation

// BTreeCacheWrap places a btree cache over a KVStore. All writes are held
// in the btree until Write copies them to the backing store, or Discard
// drops them.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	back KVStore
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap initializes a BTree to cache around this kv store.
func NewBTreeCacheWrap(kv KVStore) *BTreeCacheWrap {
	return &BTreeCacheWrap{
		bt:   btree.New(defaultDegree),
		back: kv,
	}
}

// CacheWrap layers another cache on top of this one.
// We reuse the backing store interface, so writes to the child
// cache land here until the child calls Write.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b)
}

// Write syncs with the underlying store.
func (b *BTreeCacheWrap) Write() {
	b.bt.Ascend(func(item btree.Item) bool {
		op := item.(treeItem)
		if op.deleted {
			b.back.Delete(op.key)
		} else {
			b.back.Set(op.key, op.value)
		}
		return true
	})
	b.Discard()
}

// Discard invalidates this CacheWrap and releases all data
func (b *BTreeCacheWrap) Discard() {
	b.bt = btree.New(defaultDegree)
}

// Set writes to the BTree
func (b *BTreeCacheWrap) Set(key, value []byte) {
	b.bt.ReplaceOrInsert(treeItem{key: key, value: value})
}

// Delete marks the key as removed in the BTree
func (b *BTreeCacheWrap) Delete(key []byte) {
	b.bt.ReplaceOrInsert(treeItem{key: key, deleted: true})
}

// Get reads from the BTree if there is a cached value,
// else it looks up the backing store.
func (b *BTreeCacheWrap) Get(key []byte) []byte {
	if item := b.bt.Get(treeItem{key: key}); item != nil {
		op := item.(treeItem)
		if op.deleted {
			return nil
		}
		return op.value
	}
	return b.back.Get(key)
}

// Has reads from the BTree if there is a cached value,
// else it looks up the backing store.
func (b *BTreeCacheWrap) Has(key []byte) bool {
	if item := b.bt.Get(treeItem{key: key}); item != nil {
		return !item.(treeItem).deleted
	}
	return b.back.Has(key)
}

// treeItem is a write operation stored in the btree, ordered by key.
type treeItem struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = treeItem{}

func (i treeItem) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(treeItem).key) < 0
}
