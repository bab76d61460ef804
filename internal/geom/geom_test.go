package geom

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0}, {180, 180}, {-180, 180}, {270, -90}, {-450, -90}, {721, 1},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestForwardMatchesYaw(t *testing.T) {
	for _, yaw := range []float64{0, 45, 90, -135} {
		f := Forward(yaw, 0)
		if d := math.Abs(AngleDiff(f.Yaw(), yaw)); d > 1e-6 {
			t.Fatalf("yaw %v round trip off by %v", yaw, d)
		}
	}
}

func TestSegmentHitsBox(t *testing.T) {
	box := Box{Min: V(10, -5, 0), Max: V(20, 5, 100)}

	if !SegmentHits(V(0, 0, 50), V(30, 0, 50), box) {
		t.Fatal("segment through box should hit")
	}
	if SegmentHits(V(0, 10, 50), V(30, 10, 50), box) {
		t.Fatal("segment beside box should miss")
	}
	if SegmentHits(V(0, 0, 150), V(30, 0, 150), box) {
		t.Fatal("segment above box should miss")
	}
	if SegmentHits(V(0, 0, 50), V(5, 0, 50), box) {
		t.Fatal("segment stopping short should miss")
	}

	tHit, ok := SegmentHitT(V(0, 0, 50), V(40, 0, 50), box)
	if !ok || math.Abs(tHit-0.25) > 1e-9 {
		t.Fatalf("expected entry at t=0.25, got %v (hit=%v)", tHit, ok)
	}
}
