package verdict

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnnotation_When_MappingInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewAnnotation("results", 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadMapping)
}

func TestNewAnnotation_When_KeyMissing(t *testing.T) {
	t.Parallel()

	_, err := NewAnnotation("", nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestCollect_When_NoMapping_UsesRawNodeID(t *testing.T) {
	t.Parallel()

	ann, err := NewAnnotation("results", nil)
	require.NoError(t, err)

	store := make(Store)
	store.Collect(ann, Event{NodeID: "pkg/a::TestOne", Phase: PhaseCall, Outcome: OutcomePassed})
	store.Collect(ann, Event{NodeID: "pkg/a::TestTwo", Phase: PhaseCall, Outcome: OutcomeFailed})

	require.Len(t, store["results"], 2)
	assert.Equal(t, OutcomePassed, store["results"]["pkg/a::TestOne"])
	assert.Equal(t, OutcomeFailed, store["results"]["pkg/a::TestTwo"])
}

func TestNewAnnotation_When_MappingEmpty_UsesRawNodeID(t *testing.T) {
	t.Parallel()

	ann, err := NewAnnotation("results", map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, ann.Mapper, "empty table must behave like no mapping")

	store := make(Store)
	store.Collect(ann, Event{NodeID: "pkg/a::TestOne", Phase: PhaseCall, Outcome: OutcomePassed})

	require.Len(t, store["results"], 1)
	assert.Equal(t, OutcomePassed, store["results"]["pkg/a::TestOne"])
}

func TestCollect_When_MapTableMissesID_DropsEntry(t *testing.T) {
	t.Parallel()

	ann, err := NewAnnotation("results", map[string]string{
		"pkg/a::TestOne": "first",
	})
	require.NoError(t, err)

	store := make(Store)
	store.Collect(ann, Event{NodeID: "pkg/a::TestOne", Phase: PhaseCall, Outcome: OutcomePassed})
	store.Collect(ann, Event{NodeID: "pkg/a::TestUnknown", Phase: PhaseCall, Outcome: OutcomePassed})
	// The miss must not poison later collection.
	store.Collect(ann, Event{NodeID: "pkg/a::TestOne", Phase: PhaseCall, Outcome: OutcomeSkipped})

	require.Len(t, store["results"], 1)
	assert.Equal(t, OutcomeSkipped, store["results"]["first"], "last write wins")
}

func TestCollect_When_MapFuncErrors_DropsEntry(t *testing.T) {
	t.Parallel()

	ann, err := NewAnnotation("results", func(id string) (string, error) {
		if strings.Contains(id, "bad") {
			return "", errors.New("no display name")
		}
		return strings.ToUpper(id), nil
	})
	require.NoError(t, err)

	store := make(Store)
	store.Collect(ann, Event{NodeID: "pkg::Test_bad", Phase: PhaseCall, Outcome: OutcomePassed})
	store.Collect(ann, Event{NodeID: "pkg::TestGood", Phase: PhaseCall, Outcome: OutcomePassed})

	require.Len(t, store["results"], 1)
	assert.Equal(t, OutcomePassed, store["results"]["PKG::TESTGOOD"])
}

func TestCollect_When_NotCallPhase_Ignored(t *testing.T) {
	t.Parallel()

	ann, err := NewAnnotation("results", nil)
	require.NoError(t, err)

	store := make(Store)
	store.Collect(ann, Event{NodeID: "pkg::Test", Phase: PhaseSetup, Outcome: OutcomeFailed})
	store.Collect(ann, Event{NodeID: "pkg::Test", Phase: PhaseTeardown, Outcome: OutcomeFailed})

	assert.Empty(t, store)
}

func TestCollect_When_AnnotationNil_Ignored(t *testing.T) {
	t.Parallel()

	store := make(Store)
	store.Collect(nil, Event{NodeID: "pkg::Test", Phase: PhaseCall, Outcome: OutcomePassed})
	assert.Empty(t, store)
}
