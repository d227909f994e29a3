// Package token implements the reversible, transport-safe encoding used in
// deep links and callback payloads, plus the prefix dispatch that recovers a
// resource reference from a decoded payload.
package token

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Deep-link payload prefixes.
const (
	filePrefix   = "file_"
	verifyPrefix = "verify_"
)

// RefKind discriminates the two payload families a deep link can carry.
type RefKind string

const (
	KindFile   RefKind = "file"
	KindVerify RefKind = "verify"
)

// Ref is the transient resource reference recovered from a decoded payload.
type Ref struct {
	Kind RefKind
	Code string
}

// Encode turns a plaintext payload into a URL-safe token usable in deep
// links and callback-data fields.
func Encode(plaintext string) string {
	return base64.URLEncoding.EncodeToString([]byte(plaintext))
}

// Decode reverses Encode. Malformed or non-text input yields the empty
// string; it never fails loudly, the caller falls through to its default
// behavior instead.
func Decode(tok string) string {
	b, err := base64.URLEncoding.DecodeString(tok)
	if err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// EncodeFileCode produces the deep-link token for a file code.
func EncodeFileCode(code string) string {
	return Encode(filePrefix + code)
}

// NewChallenge builds the verification challenge payload for a user.
func NewChallenge(userID int64) string {
	return fmt.Sprintf("%s%d", verifyPrefix, userID)
}

// ParseRef decodes a deep-link token and dispatches on its prefix. The
// second return is false for malformed tokens and unrecognized prefixes.
func ParseRef(tok string) (Ref, bool) {
	plain := Decode(tok)
	switch {
	case strings.HasPrefix(plain, filePrefix):
		return Ref{Kind: KindFile, Code: strings.TrimPrefix(plain, filePrefix)}, true
	case strings.HasPrefix(plain, verifyPrefix):
		// The whole payload is the challenge, prefix included.
		return Ref{Kind: KindVerify, Code: plain}, true
	default:
		return Ref{}, false
	}
}
