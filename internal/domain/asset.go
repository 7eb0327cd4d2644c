package domain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AssetID identifies a fungible asset on a specific chain. The 256-bit ID is
// derived from the chain code and optional token identifier; two AssetIDs
// refer to the same asset iff their IDs match. Values are immutable once
// constructed.
type AssetID struct {
	Chain string
	Token string
	ID    common.Hash
}

// NewAssetID derives an AssetID from a chain code and an optional token
// identifier. Chain and token are normalized to upper case before hashing so
// "eth"/"usdt" and "ETH"/"USDT" name the same asset.
func NewAssetID(chain, token string) AssetID {
	chain = strings.ToUpper(strings.TrimSpace(chain))
	token = strings.ToUpper(strings.TrimSpace(token))
	return AssetID{
		Chain: chain,
		Token: token,
		ID:    crypto.Keccak256Hash([]byte(chain), []byte{0}, []byte(token)),
	}
}

// AssetFromHandle builds an AssetID from a "CHAIN" or "CHAIN:TOKEN" handle.
func AssetFromHandle(handle string) AssetID {
	chain, token, _ := strings.Cut(handle, ":")
	return NewAssetID(chain, token)
}

// AssetFromID reconstructs an AssetID from a raw hex id as reported by the
// server. Chain and token are unknown in this form; equality still works
// because it is defined over the id alone.
func AssetFromID(id string) AssetID {
	return AssetID{ID: common.HexToHash(id)}
}

// Equal reports whether two identifiers name the same asset.
func (a AssetID) Equal(b AssetID) bool {
	return a.ID == b.ID
}

// Symbol returns the display symbol: the token when present, the chain
// otherwise. Empty when the AssetID was built from a raw id.
func (a AssetID) Symbol() string {
	if a.Token != "" {
		return a.Token
	}
	return a.Chain
}

// Hex returns the 0x-prefixed hex form of the derived id.
func (a AssetID) Hex() string {
	return a.ID.Hex()
}
