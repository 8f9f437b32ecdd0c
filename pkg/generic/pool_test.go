package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetPoolClearsOnPut(t *testing.T) {
	p := NewResetPool(
		func() map[int]int { return make(map[int]int) },
		func(m map[int]int) { clear(m) },
	)

	m := p.Get()
	m[1] = 1
	p.Put(m)

	assert.Empty(t, m)
	assert.NotNil(t, p.Get())
}
