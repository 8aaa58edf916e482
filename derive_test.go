package quorum_test

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministic(t *testing.T) {
	seeds := [][]byte{[]byte("proposal"), []byte("a-group-address-here"), {42, 0, 0, 0, 0, 0, 0, 0}}

	addr, bump, err := quorum.FindDerived(seeds)
	require.NoError(t, err)
	require.NoError(t, addr.Validate())

	again, err := quorum.Derive(seeds, bump)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
}

func TestDeriveSeedBoundariesMatter(t *testing.T) {
	// the same concatenated bytes split differently must not derive the
	// same address
	a, bumpA, err := quorum.FindDerived([][]byte{[]byte("ab"), []byte("c")})
	require.NoError(t, err)
	b, err := quorum.Derive([][]byte{[]byte("a"), []byte("bc")}, bumpA)
	if err == nil {
		assert.False(t, a.Equals(b))
	}

	c, err := quorum.Derive([][]byte{[]byte("abc")}, bumpA)
	if err == nil {
		assert.False(t, a.Equals(c))
	}
}

func TestDeriveDependsOnBump(t *testing.T) {
	seeds := [][]byte{[]byte("ballot"), []byte("group")}

	var found []quorum.Address
	for bump := 0; bump < 256 && len(found) < 2; bump++ {
		addr, err := quorum.Derive(seeds, byte(bump))
		if err != nil {
			continue
		}
		found = append(found, addr)
	}
	require.Len(t, found, 2, "at least two bumps must derive")
	assert.False(t, found[0].Equals(found[1]))
}

func TestVerifyDerived(t *testing.T) {
	seeds := [][]byte{[]byte("proposal"), []byte("group"), {1}}

	addr, bump, err := quorum.FindDerived(seeds)
	require.NoError(t, err)

	assert.True(t, quorum.VerifyDerived(addr, seeds, bump))

	// any drift in the claim, the seeds or the bump must fail
	assert.False(t, quorum.VerifyDerived(addr, seeds, bump-1))
	assert.False(t, quorum.VerifyDerived(addr, [][]byte{[]byte("ballot"), []byte("group"), {1}}, bump))

	other := make(quorum.Address, quorum.AddressLength)
	copy(other, addr)
	other[0] ^= 0xFF
	assert.False(t, quorum.VerifyDerived(other, seeds, bump))
}

func TestFindDerivedSearchesTopDown(t *testing.T) {
	seeds := [][]byte{[]byte("some"), []byte("seeds")}

	_, bump, err := quorum.FindDerived(seeds)
	require.NoError(t, err)

	// every bump above the returned one must land on a reserved address
	for i := 255; i > int(bump); i-- {
		_, err := quorum.Derive(seeds, byte(i))
		assert.Error(t, err, "bump %d", i)
	}
}
