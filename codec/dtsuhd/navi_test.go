/*
DESCRIPTION
  navi_test.go exercises the NAVI table's slot reuse, growth and purge
  behaviour independent of bitstream parsing.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dtsuhd

import "testing"

func TestNaviFindIndexAllocatesNewSlot(t *testing.T) {
	p := NewParser()

	idx := p.naviFindIndex(0)
	if idx != 0 {
		t.Fatalf("naviFindIndex = %d, want 0", idx)
	}
	if len(p.navi) != 1 {
		t.Fatalf("len(p.navi) = %d, want 1", len(p.navi))
	}
	if p.navi[0].id != 256 || !p.navi[0].present || p.navi[0].index != 0 {
		t.Fatalf("unexpected navi entry: %+v", p.navi[0])
	}
}

func TestNaviFindIndexReusesMatchingSlot(t *testing.T) {
	p := NewParser()
	p.naviFindIndex(5)
	p.navi[0].id = 3
	p.navi[0].bytes = 128
	p.navi[0].present = false

	idx := p.naviFindIndex(5)
	if idx != 0 {
		t.Fatalf("naviFindIndex = %d, want 0 (reuse of existing index)", idx)
	}
	if !p.navi[0].present {
		t.Fatalf("expected present to be set true on reuse")
	}
	if p.navi[0].id != 3 {
		t.Fatalf("reuse must not disturb id, got %d", p.navi[0].id)
	}
}

func TestNaviFindIndexReusesVacatedSlot(t *testing.T) {
	p := NewParser()
	p.naviFindIndex(0) // slot 0, index 0
	p.naviFindIndex(1) // slot 1, index 1

	// Vacate slot 0: not present, and bytes purged to zero.
	p.navi[0].present = false
	p.navi[0].bytes = 0

	idx := p.naviFindIndex(7)
	if idx != 0 {
		t.Fatalf("naviFindIndex = %d, want 0 (reuse of vacated slot)", idx)
	}
	if len(p.navi) != 2 {
		t.Fatalf("len(p.navi) = %d, want 2 (no growth expected)", len(p.navi))
	}
	if p.navi[0].index != 7 {
		t.Fatalf("navi[0].index = %d, want 7", p.navi[0].index)
	}
}

func TestNaviPurgeZeroesAbsentEntries(t *testing.T) {
	p := NewParser()
	p.naviFindIndex(0)
	p.navi[0].bytes = 64
	p.navi[0].present = false

	p.naviPurge()

	if p.navi[0].bytes != 0 {
		t.Fatalf("naviPurge left bytes = %d, want 0", p.navi[0].bytes)
	}
}

func TestNaviPurgeLeavesPresentEntries(t *testing.T) {
	p := NewParser()
	p.naviFindIndex(0)
	p.navi[0].bytes = 64

	p.naviPurge()

	if p.navi[0].bytes != 64 {
		t.Fatalf("naviPurge modified a present entry's bytes: got %d", p.navi[0].bytes)
	}
}

func TestNaviClearEmptiesTable(t *testing.T) {
	p := NewParser()
	p.naviFindIndex(0)
	p.naviFindIndex(1)

	p.naviClear()

	if len(p.navi) != 0 {
		t.Fatalf("naviClear left %d entries, want 0", len(p.navi))
	}
}

func TestNaviClearPresentMarksAllAbsent(t *testing.T) {
	p := NewParser()
	p.naviFindIndex(0)
	p.naviFindIndex(1)

	p.naviClearPresent()

	for i, e := range p.navi {
		if e.present {
			t.Fatalf("navi[%d].present = true after naviClearPresent", i)
		}
	}
}
