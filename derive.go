package quorum

import (
	"encoding/binary"

	"github.com/iov-one/quorum/errors"
)

// derivePrefix is the domain separator for all derived addresses. It keeps
// derived addresses from colliding with condition addresses built from the
// same raw bytes.
const derivePrefix = "derive"

// Derive computes a deterministic address from an ordered list of seed byte
// strings and a disambiguating bump. Every seed is length-prefixed before
// hashing so that the seed boundaries are part of the digest.
//
// Addresses with a zero first byte are reserved for system records. A bump
// that lands on one cannot be used and Derive fails; callers that control
// the bump should search for another one (see FindDerived).
func Derive(seeds [][]byte, bump byte) (Address, error) {
	preimage := []byte(derivePrefix)
	for _, seed := range seeds {
		var length [2]byte
		binary.LittleEndian.PutUint16(length[:], uint16(len(seed)))
		preimage = append(preimage, length[:]...)
		preimage = append(preimage, seed...)
	}
	preimage = append(preimage, bump)

	addr := NewAddress(preimage)
	if addr[0] == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "bump %d lands on a reserved address", bump)
	}
	return addr, nil
}

// VerifyDerived returns true if the claimed address is exactly the address
// derived from the given seeds and bump. A claimed address that fails
// derivation (reserved pattern) can never verify.
func VerifyDerived(claimed Address, seeds [][]byte, bump byte) bool {
	addr, err := Derive(seeds, bump)
	if err != nil {
		return false
	}
	return addr.Equals(claimed)
}

// FindDerived searches bumps from 255 down to 0 and returns the first valid
// derived address together with the bump that produced it. It fails only if
// no bump produces a valid address, which for a sha256 digest is not
// expected to happen in practice.
func FindDerived(seeds [][]byte) (Address, byte, error) {
	for i := 255; i >= 0; i-- {
		bump := byte(i)
		addr, err := Derive(seeds, bump)
		if err != nil {
			continue
		}
		return addr, bump, nil
	}
	return nil, 0, errors.Wrap(errors.ErrHuman, "no valid bump for seeds")
}
