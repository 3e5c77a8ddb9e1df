package utils

import (
	"github.com/twmb/murmur3"
	"strconv"
)

// HashStrings hashes the parts in order, separated by a zero byte so that
// ("ab", "c") and ("a", "bc") differ.
func HashStrings(ss ...string) uint64 {
	hash := murmur3.New64()
	for i, s := range ss {
		if i > 0 {
			_, _ = hash.Write([]byte{0})
		}
		_, err := hash.Write([]byte(s))
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

// HashHex renders a hash the way it appears in object keys and responses.
func HashHex(h uint64) string {
	return strconv.FormatUint(h, 16)
}
