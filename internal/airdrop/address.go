package airdrop

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrInvalidAddress is returned for text that is not 20 hex-encoded bytes.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrBadChecksum is returned for mixed-case input that fails EIP-55.
	ErrBadChecksum = errors.New("address checksum mismatch")
)

// ParseAddress accepts "0x" followed by 40 hex digits. All-lower and
// all-upper input is taken as is; mixed case must be a valid EIP-55 checksum,
// since a wrong-case digit usually means a typo.
func ParseAddress(s string) (common.Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return common.Address{}, fmt.Errorf("%w: %q lacks 0x prefix", ErrInvalidAddress, s)
	}
	body := s[2:]
	if len(body) != 40 {
		return common.Address{}, fmt.Errorf("%w: %q has %d hex digits, want 40", ErrInvalidAddress, s, len(body))
	}
	if _, err := hex.DecodeString(body); err != nil {
		return common.Address{}, fmt.Errorf("%w: %q is not hex", ErrInvalidAddress, s)
	}
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if want := Checksum(body); want[2:] != body {
			return common.Address{}, fmt.Errorf("%w: %s (expected %s)", ErrBadChecksum, s, want)
		}
	}
	return common.HexToAddress(body), nil
}

// Checksum returns the EIP-55 mixed-case form of a 40-digit hex address
// (with or without 0x).
func Checksum(addr string) string {
	lower := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X"))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	hash := hex.EncodeToString(h.Sum(nil))

	var b strings.Builder
	b.Grow(42)
	b.WriteString("0x")
	for i, c := range lower {
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			b.WriteRune(c - 32)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
