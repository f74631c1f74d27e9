package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNickname(t *testing.T) {
	name, err := Nickname("Pet")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "Pet_"))
	assert.Len(t, name, len("Pet_")+nicknameRandomLength)
	assert.True(t, IsBase62(strings.TrimPrefix(name, "Pet_")))
}

func TestRequestID(t *testing.T) {
	a, b := RequestID(), RequestID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsValidRequestID(a))
	assert.False(t, IsValidRequestID("nope"))
}

func TestIsBase62(t *testing.T) {
	assert.True(t, IsBase62("aZ09"))
	assert.False(t, IsBase62(""))
	assert.False(t, IsBase62("a-b"))
}
