package crypto

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we derive from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PublicKey
}

// PublicKey wraps an ed25519 public key and ties it to the condition
// system used for authentication.
type PublicKey struct {
	data ed25519.PublicKey
}

// ParsePublicKey wraps raw public key bytes, validating the length.
func ParsePublicKey(raw []byte) (PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return PublicKey{}, errors.Wrapf(errors.ErrInvalidInput, "public key size: %d", len(raw))
	}
	return PublicKey{data: ed25519.PublicKey(raw)}, nil
}

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message, sig []byte) bool {
	return ed25519.Verify(p.data, message, sig)
}

// Condition encodes the public key into an authentication condition
func (p PublicKey) Condition() quorum.Condition {
	return quorum.NewCondition(ExtensionName, "ed25519", p.data)
}

// Address is a shortcut for Condition().Address()
func (p PublicKey) Address() quorum.Address {
	return p.Condition().Address()
}

var _ Signer = (*PrivateKey)(nil)

// PrivateKey wraps an ed25519 private key.
type PrivateKey struct {
	data ed25519.PrivateKey
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p.data) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidState, "private key not initialized")
	}
	return ed25519.Sign(p.data, message), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() PublicKey {
	return PublicKey{data: p.data.Public().(ed25519.PublicKey)}
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{data: priv}
}
