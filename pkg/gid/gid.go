// Package gid converts Shopify global identifiers into the short ids used by the storefront.
//
// The Storefront API returns ids either as plain global ids
// ("gid://shopify/ProductVariant/42") or, on older API versions, base64-encoded
// global ids. Both collapse to the trailing resource id ("42").
package gid

import (
	"encoding/base64"
	"strings"
)

const scheme = "gid://"

// Platform is the authority segment of every Shopify global id.
const Platform = "shopify"

const (
	KindProduct        = "Product"
	KindProductVariant = "ProductVariant"
	KindCollection     = "Collection"
	KindCheckout       = "Checkout"
)

// Normalize returns the trailing resource id of raw. Values that are already
// normalized pass through unchanged, except that a query string is dropped.
func Normalize(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if decoded, ok := decodeGlobal(value); ok {
		value = decoded
	}
	if strings.HasPrefix(value, scheme) {
		if idx := strings.LastIndex(value, "/"); idx >= 0 {
			value = value[idx+1:]
		}
	}
	return stripQuery(value)
}

// Format maps a normalized id back onto the platform global id for kind.
func Format(kind, id string) string {
	id = Normalize(id)
	if id == "" || kind == "" {
		return ""
	}
	return scheme + Platform + "/" + kind + "/" + id
}

// Kind returns the resource type embedded in a global id, or "" for short ids.
func Kind(raw string) string {
	value := strings.TrimSpace(raw)
	if decoded, ok := decodeGlobal(value); ok {
		value = decoded
	}
	if !strings.HasPrefix(value, scheme) {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(stripQuery(value), scheme), "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}

// IsGlobal reports whether raw is a plain or base64-encoded global id.
func IsGlobal(raw string) bool {
	value := strings.TrimSpace(raw)
	if strings.HasPrefix(value, scheme) {
		return true
	}
	_, ok := decodeGlobal(value)
	return ok
}

// Valid reports whether raw is a usable identifier: a global id must name a
// resource type and an id, a short id must be a single path segment.
func Valid(raw string) bool {
	id := Normalize(raw)
	if id == "" || strings.ContainsAny(id, "/ \t") {
		return false
	}
	if IsGlobal(raw) {
		return Kind(raw) != ""
	}
	return true
}

func decodeGlobal(value string) (string, bool) {
	if strings.HasPrefix(value, scheme) {
		return "", false
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		decoded, err := enc.DecodeString(value)
		if err != nil {
			continue
		}
		if s := string(decoded); strings.HasPrefix(s, scheme) {
			return s, true
		}
	}
	return "", false
}

func stripQuery(value string) string {
	if idx := strings.IndexByte(value, '?'); idx >= 0 {
		return value[:idx]
	}
	return value
}
