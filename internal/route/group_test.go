package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupID(t *testing.T) {
	testCases := []struct {
		name        string
		path        string
		expectedID  int
		expectError bool
	}{
		{name: "group page", path: "/group/7", expectedID: 7},
		{name: "trailing segment", path: "/group/42/refresh-page", expectedID: 42},
		{name: "prefixed path", path: "/app/group/1001", expectedID: 1001},
		{name: "no group segment", path: "/nogroup/here", expectError: true},
		{name: "non-numeric id", path: "/group/abc", expectError: true},
		{name: "empty path", path: "", expectError: true},
		{name: "id overflows int", path: "/group/99999999999999999999999", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := GroupID(tc.path)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrMissingGroupID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
		})
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/group/42", GroupPath(42))
	assert.Equal(t, "/group/42/refresh", RefreshPath(42))

	id, err := GroupID(RefreshPath(9))
	require.NoError(t, err)
	assert.Equal(t, 9, id)
}
