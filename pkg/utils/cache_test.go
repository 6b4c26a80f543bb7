package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_基本读写(t *testing.T) {
	SetCache("state-abc", "login")

	val, ok := GetCache("state-abc")
	assert.True(t, ok)
	assert.Equal(t, "login", val)

	DeleteCache("state-abc")
	_, ok = GetCache("state-abc")
	assert.False(t, ok, "删除后不应再命中")
}

func TestCache_未命中(t *testing.T) {
	_, ok := GetCache("never-set")
	assert.False(t, ok)
}
