package feed

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// guidModulus caps derived identifiers at 16 decimal digits.
const guidModulus uint64 = 10_000_000_000_000_000

// GUID derives a stable numeric identifier from an item link. The first
// 16 hex digits of the link's 128-bit digest are read as an unsigned
// integer and reduced modulo 10^16, so the same link always produces the
// same id across runs and restarts.
func GUID(link string) uint64 {
	sum := md5.Sum([]byte(link))
	digest := hex.EncodeToString(sum[:])
	v, _ := strconv.ParseUint(digest[:16], 16, 64)
	return v % guidModulus
}

// GUIDString is GUID formatted as the decimal string used in feed items.
func GUIDString(link string) string {
	return strconv.FormatUint(GUID(link), 10)
}
