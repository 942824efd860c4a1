// Package token generates opaque, unguessable bearer values used for
// sessions, one-time email tokens and app secrets.
//
// Values are base64url (no padding) encodings of crypto/rand bytes and carry
// no payload; all meaning lives in the row that stores them.
//
//	v, err := token.Generate() // 43 characters
package token
