package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotConnected  = errors.New("not connected")
	ErrTimeout       = errors.New("request timed out")
	ErrWSDisconnect  = errors.New("websocket disconnected")
	ErrInvalidAsset  = errors.New("invalid asset identifier")
	ErrInvalidDraft  = errors.New("invalid ticket draft")
	ErrStoreCorrupt  = errors.New("stored value corrupt")
	ErrSecureKey     = errors.New("secure store key mismatch")
	ErrContextDone   = errors.New("context cancelled")
	ErrRouteInactive = errors.New("route no longer active")
)

// ServerError is a domain error reported by the swap server through the
// {error: string} envelope. Code is an 8-hex-char digest of the message used
// for support correlation.
type ServerError struct {
	Message string
	Code    string
}

// NewServerError derives the correlation code from the raw error text.
func NewServerError(message string) *ServerError {
	digest := crypto.Keccak256([]byte(message))
	return &ServerError{
		Message: message,
		Code:    strings.ToUpper(fmt.Sprintf("%x", digest[:4])),
	}
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s — E%s", e.Message, e.Code)
}
