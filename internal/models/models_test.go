package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeChannelName(t *testing.T) {
	cases := map[string]string{
		"general":           "general",
		"General":           "general",
		"  General   Chat ": "general-chat",
		"Release PLANNING":  "release-planning",
		"a b c":             "a-b-c",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeChannelName(input), "input %q", input)
	}
}

func TestOrderedPair(t *testing.T) {
	one, two := OrderedPair(5, 3)
	assert.Equal(t, uint(3), one)
	assert.Equal(t, uint(5), two)

	one, two = OrderedPair(3, 5)
	assert.Equal(t, uint(3), one)
	assert.Equal(t, uint(5), two)
}

func TestMemberIsAdmin(t *testing.T) {
	assert.True(t, (&Member{Role: MemberRoleAdmin}).IsAdmin())
	assert.False(t, (&Member{Role: MemberRoleMember}).IsAdmin())
}
