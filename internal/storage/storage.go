// Package storage provides the durable key-value storage that keeps session
// tokens across CLI invocations.
package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// Keys written by the session store
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// Backend names accepted by Open
const (
	KindKeyring = "keyring"
	KindFile    = "file"
	KindMemory  = "memory"
)

// Storage is a string key-value store. A missing key is reported through the
// boolean, never as an error, and removing a missing key succeeds.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Open returns the backend named by kind, scoped to the given API origin
func Open(kind, origin string) (Storage, error) {
	scope := Scope(origin)
	switch strings.ToLower(kind) {
	case "", KindKeyring:
		return NewKeyring(scope), nil
	case KindFile:
		path, err := DefaultFilePath(scope)
		if err != nil {
			return nil, err
		}
		return NewFile(path), nil
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q (expected keyring, file or memory)", kind)
	}
}

// Scope reduces an API base URL to its origin so tokens are never shared
// between servers.
func Scope(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return strings.TrimRight(origin, "/")
	}
	return u.Scheme + "://" + u.Host
}
