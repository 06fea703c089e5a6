// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "testing"

func TestScratchGrow(t *testing.T) {
	var s Scratch
	i0 := s.Grow(Uint64)
	i1 := s.Grow(Uint64)
	if i0 != 0 || i1 != 1 {
		t.Fatalf("Grow indices = %d, %d, want 0, 1", i0, i1)
	}
	if s.Len(Uint64) != 2 {
		t.Fatalf("Len(Uint64) = %d, want 2", s.Len(Uint64))
	}
	if s.Len(Bool) != 0 {
		t.Fatalf("Len(Bool) = %d, want 0", s.Len(Bool))
	}
}

func TestScratchResize(t *testing.T) {
	var s Scratch
	s.Resize([7]int{Bool: 2, Uint64: 3})
	if len(s.Bool) != 2 || len(s.Uint64) != 3 {
		t.Fatalf("Resize gave lens %d, %d, want 2, 3", len(s.Bool), len(s.Uint64))
	}
	// Resize never shrinks and never touches an already-large vector.
	s.Bool[0] = true
	s.Resize([7]int{Bool: 1})
	if !s.Bool[0] || len(s.Bool) != 2 {
		t.Fatalf("Resize shrank or clobbered an existing vector")
	}
}

func TestScratchCloneIndependence(t *testing.T) {
	var s Scratch
	s.Grow(Uint64)
	s.Uint64[0] = 42

	clone := s.Clone()
	clone.Uint64[0] = 99

	if s.Uint64[0] != 42 {
		t.Fatalf("Clone aliased the backing array: original mutated to %d", s.Uint64[0])
	}
}
