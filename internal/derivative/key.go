// Package derivative maps source object keys to the keys their optimized
// copies are written under. The mapping depends on the source key only, so
// reprocessing a record always targets the same object.
package derivative

import "strings"

const (
	DefaultPrefix    = "optimized"
	DefaultExtension = "webp"
)

type KeyPolicy struct {
	Prefix    string
	Extension string
}

func NewKeyPolicy(prefix, extension string) KeyPolicy {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	extension = strings.TrimPrefix(extension, ".")
	if extension == "" {
		extension = DefaultExtension
	}
	return KeyPolicy{Prefix: prefix, Extension: extension}
}

// Derive returns "{prefix}/{basename(sourceKey)}.{extension}".
func (p KeyPolicy) Derive(sourceKey string) string {
	return p.Prefix + "/" + Basename(sourceKey) + "." + p.Extension
}

// IsDerivative reports whether key already lives under the derivative prefix.
func (p KeyPolicy) IsDerivative(key string) bool {
	return strings.HasPrefix(key, p.Prefix+"/")
}

// Basename returns the part of key after the last "/". A key without "/" is
// its own basename and a trailing "/" yields "".
func Basename(key string) string {
	return key[strings.LastIndex(key, "/")+1:]
}
