package utils_test

import (
	"testing"

	"github.com/starling-protocol/rfc5444/utils"

	"github.com/stretchr/testify/assert"
)

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{
		"fe80::2":  2,
		"10.0.0.2": 1,
		"10.0.0.1": 0,
	}

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "fe80::2"}, utils.SortedMapKeys(m))
	assert.Empty(t, utils.SortedMapKeys(map[int]bool{}))
}
