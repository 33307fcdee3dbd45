package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func LockKey(resource string) string {
	return "lock:" + resource
}

// Key joins parts with ':' into a namespaced key, e.g. Key("draft", owner, id).
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// HashKey builds a short deterministic key from a namespace and a set of
// parameters. Parameter order does not matter.
func HashKey(namespace string, params map[string]string) string {
	h := sha256.New()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(params[k]))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}
