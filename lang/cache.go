package lang

import (
	"bytes"
	"encoding/gob"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// clauseCache stores compiled clauses keyed by (scope_fingerprint:condition).
// Scopes with equal vocabularies share entries.
var clauseCache sync.Map

// fingerprint encodes the vocabulary of s using gob and hashes it with xxh3.
// Maps are encoded in key order so equal tables hash equally.
func fingerprint(s *Scope) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	for _, name := range sortedKeys(s.breakpoints) {
		_ = enc.Encode(name)
		_ = enc.Encode(s.breakpoints[name])
	}

	_ = enc.Encode(len(s.breakpoints))

	for _, name := range sortedKeys(s.expressions) {
		_ = enc.Encode(name)
		_ = enc.Encode(s.expressions[name])
	}

	_ = enc.Encode(len(s.expressions))

	for _, unit := range sortedKeys(s.intervals) {
		_ = enc.Encode(unit)
		_ = enc.Encode(s.intervals[unit])
	}

	_ = enc.Encode(len(s.intervals))

	return xxh3.Hash(buf.Bytes())
}

func fingerprintString(h uint64) string { return strconv.FormatUint(h, 36) }

func cacheKey(h uint64, cond string) string {
	return fingerprintString(h) + ":" + cond
}

// ClearCache removes all compiled clauses from the process-wide cache.
func ClearCache() {
	clauseCache.Clear()
}
