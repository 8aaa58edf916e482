package record

import (
	"encoding/binary"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// envelopeSize is the number of bytes the record envelope adds in front of
// the payload: the owner address and the balance.
var envelopeSize = quorum.AddressLength + 8

// Record is a single durable entry: an owner tag, a balance and the raw
// payload bytes. The payload is opaque at this layer, entity codecs give it
// meaning.
type Record struct {
	Owner   quorum.Address
	Balance uint64
	Data    []byte
}

// Validate returns an error if the record cannot be persisted.
func (r *Record) Validate() error {
	if err := r.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// OwnedBy returns true if the record's owner tag equals the given program
// identity.
func (r *Record) OwnedBy(program quorum.Address) bool {
	return r.Owner.Equals(program)
}

// Marshal encodes the record envelope followed by the payload.
func (r *Record) Marshal() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, envelopeSize+len(r.Data))
	copy(out, r.Owner)
	binary.LittleEndian.PutUint64(out[quorum.AddressLength:], r.Balance)
	copy(out[envelopeSize:], r.Data)
	return out, nil
}

// Unmarshal decodes a record from its stored form.
func (r *Record) Unmarshal(raw []byte) error {
	if len(raw) < envelopeSize {
		return errors.Wrapf(errors.ErrInvalidInput, "record too short: %d", len(raw))
	}
	r.Owner = quorum.Address(raw[:quorum.AddressLength]).Clone()
	r.Balance = binary.LittleEndian.Uint64(raw[quorum.AddressLength:])
	r.Data = append([]byte(nil), raw[envelopeSize:]...)
	return nil
}
