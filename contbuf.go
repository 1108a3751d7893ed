// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.16
//

package gosbas

// Fixed-length ring buffer of availability flags (0/1) covering the
// continuity window. The length never changes after creation.
type contBuf struct {
	flags []int
	head  int // Index of the oldest flag
	sum   int // Running sum of flags
}

func newContBuf(n int) *contBuf {
	return &contBuf{flags: make([]int, n)}
}

func (b *contBuf) Len() int { return len(b.flags) }
func (b *contBuf) Sum() int { return b.sum }

// Push the newest flag, dropping the oldest one
func (b *contBuf) Push(flag int) {
	b.sum += flag - b.flags[b.head]
	b.flags[b.head] = flag
	b.head = (b.head + 1) % len(b.flags)
}

// Start a fresh window holding only the given flag as newest sample
func (b *contBuf) Reset(flag int) {
	for i := range b.flags {
		b.flags[i] = 0
	}
	b.head = 0
	b.sum = 0
	b.Push(flag)
}

// Flags from oldest to newest
func (b *contBuf) Flags() []int {
	out := make([]int, 0, len(b.flags))
	out = append(out, b.flags[b.head:]...)
	return append(out, b.flags[:b.head]...)
}
