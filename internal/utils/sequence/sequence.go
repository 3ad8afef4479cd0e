// Package sequence derives the human-readable identifiers carried by
// workflow records: PREFIX-YYYY-NNNNN, unique per record kind per year,
// optionally followed by a revision marker -R<n> after edits.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
)

const numberWidth = 5

// Prefix returns the id prefix for a record kind in a given year, e.g. "PR-2025-".
func Prefix(kind string, year int) string {
	return fmt.Sprintf("%s-%d-", kind, year)
}

// Next scans the existing ids for a kind/year and returns the next id in the
// sequence, zero-padded to five digits. Ids whose numeric part cannot be
// parsed (legacy or malformed entries) are skipped rather than treated as an
// error. The scan-then-insert pair is not atomic; callers rely on the unique
// index on the id column and retry on conflict.
func Next(kind string, year int, existing []string) string {
	prefix := Prefix(kind, year)

	max := 0
	for _, id := range existing {
		n, ok := numberOf(id, prefix)
		if !ok {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, numberWidth, max+1)
}

// numberOf extracts the numeric tail of id under prefix, ignoring any
// revision suffix ("PR-2025-00007-R2" -> 7).
func numberOf(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(id, prefix)
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// BumpRevision appends or increments the -R<n> revision marker. The numeric
// tail of the sequence id is never mutated once assigned.
func BumpRevision(id string) string {
	base, rev := splitRevision(id)
	return fmt.Sprintf("%s-R%d", base, rev+1)
}

// Base strips any revision marker from id.
func Base(id string) string {
	base, _ := splitRevision(id)
	return base
}

// Revision returns the revision number of id, zero when it has none.
func Revision(id string) int {
	_, rev := splitRevision(id)
	return rev
}

func splitRevision(id string) (string, int) {
	i := strings.LastIndex(id, "-R")
	if i < 0 {
		return id, 0
	}
	n, err := strconv.Atoi(id[i+2:])
	if err != nil || n <= 0 {
		return id, 0
	}
	return id[:i], n
}
