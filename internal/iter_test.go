package internal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGather(t *testing.T) {
	assert := assert.New(t)

	groups := [][]int{{1, 2, 3}, {}, {4, 5}, {6}}
	self := func(group []int) []int { return group }
	odd := func(val int) bool { return val&1 != 0 }
	all := func(int) bool { return true }

	assert.Equal([]int{1, 3, 5}, slices.Collect(Gather(groups, self, odd)))
	assert.Equal([]int{1, 2, 3, 4, 5, 6}, slices.Collect(Gather(groups, self, all)))
	assert.Empty(slices.Collect(Gather(nil, self, all)))

	var first []int
	for val := range Gather(groups, self, all) {
		first = append(first, val)
		if val == 4 {
			break
		}
	}
	assert.Equal([]int{1, 2, 3, 4}, first)
}
