package report

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// AgeBucket maps an age to the lower bound of its 5-year band, so that
// near-identical patients share cache entries.
func AgeBucket(age int) int {
	if age < 0 {
		return 0
	}
	return (age / 5) * 5
}

// CacheKey produces a deterministic key over the normalized assessment
// inputs: symptoms are lowercased, deduplicated and sorted so that the same
// set in any order yields the same key.
func CacheKey(symptoms []string, feeling string, age int) string {
	normalized := lo.FilterMap(symptoms, func(s string, _ int) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	})
	normalized = lo.Uniq(normalized)
	sort.Strings(normalized)

	payload := strings.Join(normalized, ",") +
		"|" + strings.ToLower(strings.TrimSpace(feeling)) +
		"|" + strconv.Itoa(AgeBucket(age))

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
