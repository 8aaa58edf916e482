package record

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const (
	// bucketPrefix namespaces all record keys in the kv store.
	bucketPrefix = "records:"

	// DefaultBaseFee and DefaultFeePerByte are the default storage
	// pricing. Creating a record locks baseFee + size*feePerByte of the
	// funder's balance inside the new record.
	DefaultBaseFee    uint64 = 1000
	DefaultFeePerByte uint64 = 10
)

// Store reads and writes Records through a KVStore. The zero value is not
// usable, use NewStore.
type Store struct {
	baseFee    uint64
	feePerByte uint64
}

// NewStore returns a record store with the default storage pricing.
func NewStore() Store {
	return Store{
		baseFee:    DefaultBaseFee,
		feePerByte: DefaultFeePerByte,
	}
}

// NewStoreWithFees returns a record store with custom storage pricing.
func NewStoreWithFees(baseFee, feePerByte uint64) Store {
	return Store{
		baseFee:    baseFee,
		feePerByte: feePerByte,
	}
}

// MinimumBalance returns the balance a record of the given payload size
// must hold to be created.
func (s Store) MinimumBalance(size int) uint64 {
	return s.baseFee + uint64(size)*s.feePerByte
}

func key(addr quorum.Address) []byte {
	return append([]byte(bucketPrefix), addr...)
}

// Get loads the record stored under the given address. It returns nil
// without an error if no record exists there.
func (s Store) Get(db quorum.ReadOnlyKVStore, addr quorum.Address) (*Record, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	raw := db.Get(key(addr))
	if raw == nil {
		return nil, nil
	}
	var rec Record
	if err := rec.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "record %s", addr)
	}
	return &rec, nil
}

// Save persists the record under the given address, overwriting any
// previous content.
func (s Store) Save(db quorum.KVStore, addr quorum.Address, rec *Record) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	raw, err := rec.Marshal()
	if err != nil {
		return errors.Wrapf(err, "record %s", addr)
	}
	db.Set(key(addr), raw)
	return nil
}

// Create allocates a new record of the given payload size under addr, owned
// by the given program identity. The minimum balance for that size is moved
// from the funder record into the new record. It fails if a record already
// exists under addr, if the funder record does not exist, or if the funder
// cannot cover the minimum balance.
func (s Store) Create(db quorum.KVStore, addr, owner, funder quorum.Address, size int) (*Record, error) {
	if existing, err := s.Get(db, addr); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "record %s", addr)
	}

	payer, err := s.Get(db, funder)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "funder %s", funder)
	}
	cost := s.MinimumBalance(size)
	if payer.Balance < cost {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount,
			"funder %s has %d, needs %d", funder, payer.Balance, cost)
	}
	payer.Balance -= cost
	if err := s.Save(db, funder, payer); err != nil {
		return nil, err
	}

	rec := &Record{
		Owner:   owner.Clone(),
		Balance: cost,
		Data:    make([]byte, size),
	}
	if err := s.Save(db, addr, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
