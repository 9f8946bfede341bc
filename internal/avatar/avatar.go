// Package avatar derives default avatar URLs from email addresses using
// the Gravatar scheme (MD5 of the normalized address, identicon fallback).
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const baseURL = "https://www.gravatar.com/avatar"

// Resolve returns the Gravatar URL for the given email, or "" when the
// email is empty.
func Resolve(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return ""
	}
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("%s/%s?d=identicon", baseURL, hex.EncodeToString(sum[:]))
}
