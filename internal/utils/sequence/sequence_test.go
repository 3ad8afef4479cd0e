package sequence_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qistas/opsflow_backend/internal/utils/sequence"
)

func TestNext_EmptyScanStartsAtOne(t *testing.T) {
	assert.Equal(t, "PR-2025-00001", sequence.Next("PR", 2025, nil))
}

func TestNext_TakesMaxPlusOne(t *testing.T) {
	existing := []string{
		"PR-2025-00001",
		"PR-2025-00006",
		"PR-2025-00003",
	}
	assert.Equal(t, "PR-2025-00007", sequence.Next("PR", 2025, existing))
}

func TestNext_IgnoresOtherYearsAndKinds(t *testing.T) {
	existing := []string{
		"PR-2024-00099",
		"ORD-2025-00042",
		"PR-2025-00002",
	}
	assert.Equal(t, "PR-2025-00003", sequence.Next("PR", 2025, existing))
}

func TestNext_RevisionSuffixDoesNotAffectNumericTail(t *testing.T) {
	existing := []string{
		"ORD-2025-00011-R2",
		"ORD-2025-00009",
	}
	assert.Equal(t, "ORD-2025-00012", sequence.Next("ORD", 2025, existing))
}

func TestNext_ToleratesMalformedLegacyIds(t *testing.T) {
	existing := []string{
		"PR-2025-ABCDE",
		"PR-2025-",
		"PR-2025-00004",
		"garbage",
	}
	assert.Equal(t, "PR-2025-00005", sequence.Next("PR", 2025, existing))
}

func TestNext_SequentialCreationsAreStrictlyIncreasing(t *testing.T) {
	var existing []string
	prev := ""
	for i := 0; i < 10; i++ {
		id := sequence.Next("QT", 2025, existing)
		if prev != "" {
			assert.Greater(t, id, prev)
		}
		existing = append(existing, id)
		prev = id
	}
	assert.Equal(t, "QT-2025-00010", prev)
	assert.Equal(t, fmt.Sprintf("%s%05d", sequence.Prefix("QT", 2025), 10), prev)
}

func TestBumpRevision(t *testing.T) {
	assert.Equal(t, "ORD-2025-00007-R1", sequence.BumpRevision("ORD-2025-00007"))
	assert.Equal(t, "ORD-2025-00007-R2", sequence.BumpRevision("ORD-2025-00007-R1"))
}

func TestBaseAndRevision(t *testing.T) {
	assert.Equal(t, "ORD-2025-00007", sequence.Base("ORD-2025-00007-R3"))
	assert.Equal(t, 3, sequence.Revision("ORD-2025-00007-R3"))
	assert.Equal(t, 0, sequence.Revision("ORD-2025-00007"))
}
