package keys

import (
	"encoding/hex"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Keypairs are regenerated until the compressed public key carries the 0x02
// parity byte, so the 64-char remainder alone identifies the point. Each
// draw hits with probability ~1/2; the bound only guards against a broken
// randomness source.
const maxAttempts = 256

var ErrKeyspaceExhausted = errors.New("could not generate an 02-prefixed key")

// Keypair holds hex-encoded secp256k1 key material. Pubkey is the compressed
// public key with its "02" prefix stripped.
type Keypair struct {
	Privkey string `json:"privkey"`
	Pubkey  string `json:"pubkey"`
}

// Generate draws keypairs until the public key's leading byte is 0x02.
func Generate() (*Keypair, error) {
	for i := 0; i < maxAttempts; i++ {
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		pub := priv.PubKey().SerializeCompressed()
		if pub[0] != secp256k1.PubKeyFormatCompressedEven {
			continue
		}
		return &Keypair{
			Privkey: hex.EncodeToString(priv.Serialize()),
			Pubkey:  hex.EncodeToString(pub[1:]),
		}, nil
	}
	return nil, ErrKeyspaceExhausted
}
