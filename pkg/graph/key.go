package graph

import (
	"path"
	"strings"
)

// KeySeparator joins the two halves of a key when it is displayed. It is
// reserved: local ids may not contain it.
const KeySeparator = "#>"

// Key identifies a solid in the evaluation cache: a local id scoped by the
// short name of the document that declares it. Two nodes share a key iff
// they share both halves.
type Key struct {
	Local string
	Owner string
}

// NewKey builds the key for localID declared in document owner.
func NewKey(localID, owner string) Key {
	return Key{Local: localID, Owner: owner}
}

func (k Key) String() string {
	return k.Local + KeySeparator + k.Owner
}

// ValidLocalID reports whether id may be used as the local half of a key.
func ValidLocalID(id string) bool {
	return id != "" && !strings.Contains(id, KeySeparator)
}

// ShortName returns the name a document is known by inside keys: its base
// file name, lower-cased.
func ShortName(p string) string {
	return strings.ToLower(path.Base(strings.ReplaceAll(p, "\\", "/")))
}
