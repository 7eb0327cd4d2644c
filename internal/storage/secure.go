package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/swaplabs/swapdesk/internal/domain"
)

// scrypt parameters for passphrase key derivation.
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	secureKeyLen = chacha20poly1305.KeySize
)

// secureSalt pins key derivation to this store format. Values are not
// portable across applications, which is intended.
var secureSalt = sha256.Sum256([]byte("swapdesk/securestore/v1"))

// Secure wraps a Store and encrypts every value with a passphrase-derived
// key (scrypt + ChaCha20-Poly1305). Keys stay in the clear so prefix
// enumeration keeps working.
type Secure struct {
	inner Store
	key   []byte
}

type secureBox struct {
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// NewSecure derives the encryption key from the passphrase and returns the
// encrypting wrapper.
func NewSecure(inner Store, passphrase string) (*Secure, error) {
	key, err := scrypt.Key([]byte(passphrase), secureSalt[:], scryptN, scryptR, scryptP, secureKeyLen)
	if err != nil {
		return nil, fmt.Errorf("storage: derive key: %w", err)
	}
	return &Secure{inner: inner, key: key}, nil
}

func (s *Secure) Get(ctx context.Context, key string, out any) error {
	var box secureBox
	if err := s.inner.Get(ctx, key, &box); err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return fmt.Errorf("storage: cipher: %w", err)
	}
	plain, err := aead.Open(nil, box.Nonce, box.Data, []byte(key))
	if err != nil {
		return domain.ErrSecureKey
	}
	return json.Unmarshal(plain, out)
}

func (s *Secure) Set(ctx context.Context, key string, value any) error {
	if value == nil {
		return s.inner.Delete(ctx, key)
	}
	plain, err := json.Marshal(value)
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return fmt.Errorf("storage: cipher: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("storage: nonce: %w", err)
	}
	return s.inner.Set(ctx, key, secureBox{
		Nonce: nonce,
		Data:  aead.Seal(nil, nonce, plain, []byte(key)),
	})
}

func (s *Secure) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *Secure) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.Keys(ctx, prefix)
}

var _ Store = (*Secure)(nil)
