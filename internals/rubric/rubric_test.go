package rubric

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r, err := Lookup("clarity")
	require.NoError(t, err)
	assert.Equal(t, "Writing clarity", r.Title)

	_, err = Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknown))
}

func TestAllSortedAndComplete(t *testing.T) {
	all := All()
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestGuidelinesMentionEveryCriterion(t *testing.T) {
	for _, r := range All() {
		require.NotEmpty(t, r.Criteria, r.Name)
		for _, c := range r.Criteria {
			assert.True(t, strings.Contains(r.Guidelines, c), "%s guidelines do not mention %q", r.Name, c)
		}
	}
}
