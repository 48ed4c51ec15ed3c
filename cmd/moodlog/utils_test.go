package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"exercise", []string{"exercise"}},
		{"exercise, work ,, friends", []string{"exercise", "work", "friends"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitList(tt.in), "splitList(%q)", tt.in)
	}
}

func TestOrNone(t *testing.T) {
	assert.Equal(t, "none", orNone(nil))
	assert.Equal(t, "a, b", orNone([]string{"a", "b"}))
}
