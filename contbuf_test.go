// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package gosbas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContBuf(t *testing.T) {
	b := newContBuf(4)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []int{0, 0, 0, 0}, b.Flags())

	for _, f := range []int{1, 1, 0, 1} {
		b.Push(f)
	}
	assert.Equal(t, []int{1, 1, 0, 1}, b.Flags())
	assert.Equal(t, 3, b.Sum())

	b.Push(0)
	b.Push(1)
	assert.Equal(t, []int{0, 1, 0, 1}, b.Flags())
	assert.Equal(t, 2, b.Sum())
	assert.Equal(t, 4, b.Len())

	b.Reset(1)
	assert.Equal(t, []int{0, 0, 0, 1}, b.Flags())
	assert.Equal(t, 1, b.Sum())

	b.Reset(0)
	assert.Equal(t, 0, b.Sum())
	assert.Equal(t, 4, b.Len())
}

func TestContBufSingle(t *testing.T) {
	b := newContBuf(1)
	b.Push(1)
	assert.Equal(t, 1, b.Sum())
	b.Push(0)
	assert.Equal(t, 0, b.Sum())
	assert.Equal(t, []int{0}, b.Flags())
}
