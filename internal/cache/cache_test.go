package cache

import "testing"

func TestAddressSplitRoundTrip(t *testing.T) {
	c := New("t", Geometry{SetBits: 3, LinesPerSet: 2, BlockBits: 4})
	for _, addr := range []uint64{0, 0x1, 0xFF, 0x12345678, 0xFFFFFFFF} {
		tag := c.Tag(addr)
		set := c.SetIndex(addr)
		blockOff := addr & (1<<c.BlockBits - 1)
		rebuilt := tag<<(c.SetBits+c.BlockBits) | set<<c.BlockBits | blockOff
		if rebuilt != addr {
			t.Errorf("round-trip(0x%x): tag=0x%x set=0x%x off=0x%x -> 0x%x", addr, tag, set, blockOff, rebuilt)
		}
	}
}

func TestLRUEviction(t *testing.T) {
	c := New("t", Geometry{SetBits: 0, LinesPerSet: 2, BlockBits: 2, Policy: LRU})

	r1 := c.Operate(0x00)
	r2 := c.Operate(0x10)
	r3 := c.Operate(0x20)

	if r1.Status != Miss || r2.Status != Miss {
		t.Fatalf("expected fills into invalid lines, got %v, %v", r1.Status, r2.Status)
	}
	if r3.Status != Evict {
		t.Fatalf("expected Evict on third access, got %v", r3.Status)
	}
	if r3.VictimBlockAddr != 0x00 {
		t.Errorf("VictimBlockAddr = 0x%x, want 0x00 (LRU)", r3.VictimBlockAddr)
	}
	if r3.InsertBlockAddr != 0x20 {
		t.Errorf("InsertBlockAddr = 0x%x, want 0x20", r3.InsertBlockAddr)
	}
	if c.MissCount != 3 || c.EvictionCount != 1 {
		t.Errorf("MissCount=%d EvictionCount=%d, want 3, 1", c.MissCount, c.EvictionCount)
	}
}

func TestLFUTieBreak(t *testing.T) {
	c := New("t", Geometry{SetBits: 0, LinesPerSet: 2, BlockBits: 2, Policy: LFU})

	addrs := []uint64{0x00, 0x00, 0x10, 0x10, 0x10}
	for _, a := range addrs {
		c.Operate(a)
	}
	r := c.Operate(0x20)
	if r.Status != Evict {
		t.Fatalf("expected Evict, got %v", r.Status)
	}
	if r.VictimBlockAddr != 0x00 {
		t.Errorf("VictimBlockAddr = 0x%x, want 0x00 (fewer touches than 0x10)", r.VictimBlockAddr)
	}
}

func TestHitUpdatesCounters(t *testing.T) {
	c := New("t", Geometry{SetBits: 1, LinesPerSet: 1, BlockBits: 2})
	c.Operate(0x00)
	r := c.Operate(0x00)
	if r.Status != Hit {
		t.Fatalf("expected Hit on repeat access, got %v", r.Status)
	}
	if c.HitCount != 1 || c.MissCount != 1 {
		t.Errorf("HitCount=%d MissCount=%d, want 1, 1", c.HitCount, c.MissCount)
	}
}

func TestLatency(t *testing.T) {
	c := New("t", Geometry{SetBits: 1, LinesPerSet: 1, BlockBits: 2, HitLatency: 1, MissLatency: 10})
	if got := c.Latency(Hit); got != 1 {
		t.Errorf("Latency(Hit) = %d, want 1", got)
	}
	if got := c.Latency(Miss); got != 10 {
		t.Errorf("Latency(Miss) = %d, want 10", got)
	}
	if got := c.Latency(Evict); got != 10 {
		t.Errorf("Latency(Evict) = %d, want 10", got)
	}
}
