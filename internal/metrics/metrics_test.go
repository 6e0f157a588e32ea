package metrics

import (
	"context"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Faultbox/voxelmap/internal/minimap"
	"github.com/Faultbox/voxelmap/pkg/palette"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveScan(2*time.Millisecond, minimap.Stats{Written: 100, Skipped: 28, Void: 3, Dark: 1}, 7)
	c.ObserveScan(time.Millisecond, minimap.Stats{Written: 128}, 8)
	c.ObserveGenerated(5)
	c.ObserveWorldChange()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"ticks", testutil.ToFloat64(c.ticks), 2},
		{"written", testutil.ToFloat64(c.cells.WithLabelValues("written")), 228},
		{"skipped", testutil.ToFloat64(c.cells.WithLabelValues("skipped")), 28},
		{"void", testutil.ToFloat64(c.cells.WithLabelValues("void")), 3},
		{"dark", testutil.ToFloat64(c.cells.WithLabelValues("dark")), 1},
		{"generated", testutil.ToFloat64(c.generated), 5},
		{"worlds", testutil.ToFloat64(c.worlds), 1},
		{"sequence", testutil.ToFloat64(c.lastSeq), 8},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(c.scanDuration); n != 1 {
		t.Errorf("scan duration collected %d series, want 1", n)
	}
}

func TestRegisterGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	value := 3.0
	if err := RegisterGauge(reg, "chunks_decoded", "Decoded chunks.", func() float64 { return value }); err != nil {
		t.Fatalf("RegisterGauge: %v", err)
	}
	if err := RegisterGauge(reg, "chunks_decoded", "Decoded chunks.", func() float64 { return 0 }); err == nil {
		t.Error("duplicate registration succeeded")
	}

	value = 9
	expected := `
# HELP voxelmap_chunks_decoded Decoded chunks.
# TYPE voxelmap_chunks_decoded gauge
voxelmap_chunks_decoded 9
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "voxelmap_chunks_decoded"); err != nil {
		t.Error(err)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.ObserveScan(time.Millisecond, minimap.Stats{Written: 1}, 1)

	var latest atomic.Pointer[minimap.Raster]
	srv := httptest.NewServer(Handler(reg, latest.Load))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/minimap.png")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("before first scan: status %d, want 503", resp.StatusCode)
	}

	raster := minimap.NewRaster()
	raster.Reset(10, -4, 1)
	raster.Set(3, 3, minimap.Encode(palette.Grass, 1))
	latest.Store(raster)

	resp, err = http.Get(srv.URL + "/minimap.png")
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != minimap.Size || b.Dy() != minimap.Size {
		t.Errorf("image bounds %v", b)
	}
	if got := resp.Header.Get("X-Minimap-Center"); got != "10,-4" {
		t.Errorf("center header %q, want 10,-4", got)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "voxelmap_ticks_total 1") {
		t.Errorf("metrics output missing tick counter:\n%s", body)
	}

	resp, err = http.Post(srv.URL+"/metrics", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /metrics status %d, want 405", resp.StatusCode)
	}
}

func TestServeShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, Handler(prometheus.NewRegistry(), func() *minimap.Raster { return nil }))
	}()

	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
