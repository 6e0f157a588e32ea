package minimap

import (
	"sync"
	"testing"
)

func TestExchange(t *testing.T) {
	var e Exchange

	if r, seq := e.Latest(); r != nil || seq != 0 {
		t.Fatalf("empty exchange returned (%v, %d)", r, seq)
	}

	work := NewRaster()
	work.Set(1, 1, 5)
	e.Publish(work)
	work.Set(1, 1, 6)

	r, seq := e.Latest()
	if r == nil || seq != 1 {
		t.Fatalf("after publish: (%v, %d)", r, seq)
	}
	if r.Cell(1, 1) != 5 {
		t.Error("published snapshot changed with the working raster")
	}

	e.Clear()
	if r, seq := e.Latest(); r != nil || seq != 2 {
		t.Errorf("after clear: (%v, %d)", r, seq)
	}
}

func TestExchange_Concurrent(t *testing.T) {
	var e Exchange
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		work := NewRaster()
		for i := 0; i < 200; i++ {
			work.Set(0, 0, byte(i))
			e.Publish(work)
		}
	}()

	for i := 0; i < 200; i++ {
		if r, _ := e.Latest(); r != nil {
			_ = r.Cell(0, 0)
		}
	}
	wg.Wait()

	if r, seq := e.Latest(); r.Cell(0, 0) != 199 || seq != 200 {
		t.Errorf("final snapshot (%d, %d), want (199, 200)", r.Cell(0, 0), seq)
	}
}

func TestExchange_PairsRasterWithSequence(t *testing.T) {
	var e Exchange
	var wg sync.WaitGroup
	const n = 250

	wg.Add(1)
	go func() {
		defer wg.Done()
		work := NewRaster()
		for i := 0; i < n; i++ {
			work.Set(0, 0, byte(i))
			e.Publish(work)
		}
	}()

	for i := 0; i < 2000; i++ {
		r, seq := e.Latest()
		if r == nil {
			if seq != 0 {
				t.Fatalf("nil raster with sequence %d", seq)
			}
			continue
		}
		// Publish i stores cell i as sequence i+1.
		if uint64(r.Cell(0, 0))+1 != seq {
			t.Fatalf("raster from publish %d paired with sequence %d", r.Cell(0, 0), seq)
		}
	}
	wg.Wait()
}
