package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// GenerateID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space, plenty for a
// single-user workspace.
func GenerateID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

const (
	PrefixTask      = "task"
	PrefixProject   = "proj"
	PrefixArea      = "area"
	PrefixHeading   = "head"
	PrefixChecklist = "chk"
	PrefixRule      = "rule"
)
