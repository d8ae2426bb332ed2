package rete

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Domain separators for content-addressed identity, following the
// hash-with-domain pattern used throughout the discrimination network:
// every hashed value is prefixed with a domain tag and a null separator
// before hashing, so a Token and an Element that happen to canonicalize
// to the same bytes never collide.
const (
	domainToken   = "rete/token/v1"
	domainElement = "rete/element/v1"
	domainAccum   = "rete/accum/v1"
	domainScope   = "rete/scope/v1"
)

// Hash is a content-addressed identity, hex-encoded SHA-256. It is the
// map key working memory, the insertion log, and accumulator grouping
// use internally — two Tokens (or Elements, or accumulator groups) with
// the same Hash are, for the network's purposes, the same thing.
type Hash string

func hashWithDomain(domain string, parts ...string) Hash {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0})
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// canonicalBindings renders Bindings as a deterministic byte string:
// sorted keys, explicit type tags, recursive for nested List/Object.
// This is the module's equivalent of RFC 8785 canonical JSON, scoped to
// the closed Value set rather than full JSON — the same tradeoff the
// teacher's ir package makes with its own hand-written canonical
// encoder over the sealed IRValue family.
func canonicalBindings(b Bindings) string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	var out []byte
	for _, k := range keys {
		out = append(out, k...)
		out = append(out, '=')
		out = append(out, canonicalValue(b[Var(k)])...)
		out = append(out, ';')
	}
	return string(out)
}

func canonicalValue(v Value) string {
	switch vv := v.(type) {
	case nil:
		return "n:"
	case String:
		// NFC-normalize before hashing so two byte-distinct but
		// Unicode-equivalent strings (e.g. a precomposed accent vs. a
		// base letter plus combining mark) carry the same identity,
		// matching the teacher's canonical-JSON hashing discipline.
		return "s:" + norm.NFC.String(string(vv))
	case Int:
		return "i:" + formatValue(vv)
	case Bool:
		return "b:" + formatValue(vv)
	case List:
		out := "l:["
		for _, e := range vv {
			out += canonicalValue(e) + ","
		}
		return out + "]"
	case Object:
		out := "o:{"
		for _, k := range vv.SortedKeys() {
			out += k + "=" + canonicalValue(vv[k]) + ","
		}
		return out + "}"
	case Opaque:
		return "x:" + formatValue(vv)
	default:
		return "?:"
	}
}

// TokenHash computes the content-addressed identity of a token's
// bindings within a join-bindings scope. Two tokens with equal bindings
// hash identically regardless of how their matches provenance differs —
// provenance does not affect identity, only bindings do, matching
// spec.md's definition of working-memory token equality.
func TokenHash(bindings Bindings) Hash {
	return hashWithDomain(domainToken, canonicalBindings(bindings))
}

// ElementHash computes the content-addressed identity of an element's
// bindings.
func ElementHash(bindings Bindings) Hash {
	return hashWithDomain(domainElement, canonicalBindings(bindings))
}

// AccumGroupHash computes the identity of an accumulator group keyed by
// its fact-bindings (the projection of an element's bindings onto the
// accumulator's grouping keys).
func AccumGroupHash(factBindings Bindings) Hash {
	return hashWithDomain(domainAccum, canonicalBindings(factBindings))
}

// ScopeHash computes the identity of a join-bindings scope, used as the
// outer key of every per-(node, join-bindings) working-memory map.
func ScopeHash(joinBindings Bindings) Hash {
	return hashWithDomain(domainScope, canonicalBindings(joinBindings))
}
