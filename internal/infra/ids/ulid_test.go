package ids

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionIDIsSortable(t *testing.T) {
	now := time.Now()

	first, err := NewVersionID(now)
	require.NoError(t, err)
	second, err := NewVersionID(now)
	require.NoError(t, err)
	later, err := NewVersionID(now.Add(time.Second))
	require.NoError(t, err)

	assert.Len(t, first, 26)
	assert.Less(t, first, second)
	assert.Less(t, second, later)
}
