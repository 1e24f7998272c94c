package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  Intent
		wantKnown bool
	}{
		{"CREATE", IntentCreate, true},
		{"READ", IntentRead, true},
		{"BOTH", IntentBoth, true},
		{"OTHER", IntentOther, true},
		{"DELETE", IntentOther, false},
		{"create", IntentOther, false},
		{"", IntentOther, false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			intent, known := ParseIntent(tc.raw)
			assert.Equal(t, tc.expected, intent)
			assert.Equal(t, tc.wantKnown, known)
		})
	}
}

func TestIntent_Branches(t *testing.T) {
	assert.True(t, IntentCreate.HasWrite())
	assert.False(t, IntentCreate.HasRead())
	assert.False(t, IntentRead.HasWrite())
	assert.True(t, IntentRead.HasRead())
	assert.True(t, IntentBoth.HasWrite())
	assert.True(t, IntentBoth.HasRead())
	assert.False(t, IntentOther.HasWrite())
	assert.False(t, IntentOther.HasRead())
}
