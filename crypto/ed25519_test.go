package crypto

import (
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestSignAndVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()

	msg := []byte("vote on proposal 12345")
	sig, err := priv.Sign(msg)
	assert.Nil(t, err)

	if !pub.Verify(msg, sig) {
		t.Fatal("signature must verify")
	}
	if pub.Verify([]byte("another message"), sig) {
		t.Fatal("signature must not verify a different message")
	}
	if GenPrivKeyEd25519().PublicKey().Verify(msg, sig) {
		t.Fatal("signature must not verify under a different key")
	}
}

func TestUninitializedPrivateKeyCannotSign(t *testing.T) {
	var priv PrivateKey
	if _, err := priv.Sign([]byte("msg")); !errors.ErrInvalidState.Is(err) {
		t.Fatalf("got error: %+v", err)
	}
}

func TestPublicKeyCondition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()

	cond := pub.Condition()
	ext, typ, data, err := cond.Parse()
	assert.Nil(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, []byte(pub.data), data)

	addr := pub.Address()
	assert.Nil(t, addr.Validate())
	assert.Equal(t, cond.Address(), addr)
}

func TestParsePublicKey(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()

	parsed, err := ParsePublicKey(pub.data)
	assert.Nil(t, err)
	assert.Equal(t, pub.Condition(), parsed.Condition())

	if _, err := ParsePublicKey([]byte("too short")); !errors.ErrInvalidInput.Is(err) {
		t.Fatalf("got error: %+v", err)
	}
}

func TestDistinctKeysDistinctAddresses(t *testing.T) {
	a := GenPrivKeyEd25519().PublicKey().Address()
	b := GenPrivKeyEd25519().PublicKey().Address()
	if a.Equals(b) {
		t.Fatal("two random keys must not share an address")
	}
}
