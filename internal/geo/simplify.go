package geo

import "math"

// simplifyRing reduces a polygon ring with Douglas-Peucker at the given
// tolerance (degrees), then restores any dropped vertex whose removal would
// make the ring cross itself, so simplification never introduces a
// self-intersection the source ring did not have. Ring closure is
// preserved: a closed input yields a closed output. Endpoints always
// survive, so neighboring rings simplified independently still share their
// border vertices when the source shares them.
func simplifyRing(ring []point, tolerance float64) []point {
	if tolerance <= 0 || len(ring) <= 4 {
		return ring
	}

	keep := make([]bool, len(ring))
	keep[0] = true
	keep[len(ring)-1] = true
	douglasPeucker(ring, 0, len(ring)-1, tolerance, keep)
	restoreTopology(ring, keep)

	out := make([]point, 0, len(ring))
	for i, k := range keep {
		if k {
			out = append(out, ring[i])
		}
	}
	return out
}

// restoreTopology re-adds dropped vertices until the kept polyline has no
// crossing the source ring lacked. Each pass either finishes or restores at
// least one vertex, so the loop is bounded by the ring length. A crossing
// whose segments span no dropped vertex was already present in the source
// and is left alone.
func restoreTopology(ring []point, keep []bool) {
	for {
		idx := keptIndices(keep)
		i, j := findCrossing(ring, idx)
		if i < 0 {
			return
		}
		if !restoreFarthest(ring, keep, idx[i], idx[i+1]) &&
			!restoreFarthest(ring, keep, idx[j], idx[j+1]) {
			return
		}
	}
}

func keptIndices(keep []bool) []int {
	idx := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return idx
}

// findCrossing returns the positions in idx of the first pair of kept
// segments that properly cross, or (-1, -1) when the polyline is clean.
// Segments sharing an endpoint (including the ring closure) cannot
// properly cross and are skipped.
func findCrossing(ring []point, idx []int) (int, int) {
	for i := 0; i+1 < len(idx); i++ {
		a1, a2 := ring[idx[i]], ring[idx[i+1]]
		for j := i + 1; j+1 < len(idx); j++ {
			b1, b2 := ring[idx[j]], ring[idx[j+1]]
			if sharesEndpoint(a1, a2, b1, b2) {
				continue
			}
			if segmentsCross(a1, a2, b1, b2) {
				return i, j
			}
		}
	}
	return -1, -1
}

func sharesEndpoint(a1, a2, b1, b2 point) bool {
	return a1 == b1 || a1 == b2 || a2 == b1 || a2 == b2
}

// restoreFarthest re-marks the dropped vertex between ring indices lo and
// hi that sits farthest from the chord, reporting false when the span has
// no dropped vertex to restore.
func restoreFarthest(ring []point, keep []bool, lo, hi int) bool {
	maxDist := -1.0
	maxIdx := -1
	for i := lo + 1; i < hi; i++ {
		if keep[i] {
			continue
		}
		d := perpendicularDistance(ring[i], ring[lo], ring[hi])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxIdx < 0 {
		return false
	}
	keep[maxIdx] = true
	return true
}

// cross returns the z-component of (b-a) x (c-a).
func cross(a, b, c point) float64 {
	return (b.lon-a.lon)*(c.lat-a.lat) - (b.lat-a.lat)*(c.lon-a.lon)
}

// segmentsCross reports whether segments a1-a2 and b1-b2 cross at interior
// points. Touching endpoints and collinear overlap do not count: they do
// not change what a line renderer draws.
func segmentsCross(a1, a2, b1, b2 point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// douglasPeucker marks the points to keep between the fixed endpoints
// first and last. Recursion depth is bounded by the split structure, not
// the input size, so county-scale rings are safe.
func douglasPeucker(pts []point, first, last int, tolerance float64, keep []bool) {
	if last <= first+1 {
		return
	}

	maxDist := 0.0
	maxIdx := -1
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(pts[i], pts[first], pts[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= tolerance {
		return
	}

	keep[maxIdx] = true
	douglasPeucker(pts, first, maxIdx, tolerance, keep)
	douglasPeucker(pts, maxIdx, last, tolerance, keep)
}

// perpendicularDistance is the distance from p to segment a-b. For a closed
// ring the anchor segment degenerates (a == b); the distance to the shared
// endpoint is used, which keeps the farthest point and lets recursion split
// the ring.
func perpendicularDistance(p, a, b point) float64 {
	dx := b.lon - a.lon
	dy := b.lat - a.lat

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.lon-a.lon, p.lat-a.lat)
	}

	t := ((p.lon-a.lon)*dx + (p.lat-a.lat)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	px := a.lon + t*dx
	py := a.lat + t*dy
	return math.Hypot(p.lon-px, p.lat-py)
}
