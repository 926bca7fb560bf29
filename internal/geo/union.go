package geo

import "sort"

// quantum quantizes coordinates to 1e-7 degrees (~1cm) so coincident
// vertices from neighboring county rings compare equal despite float noise.
const quantum = 1e7

type qpoint struct {
	x int64 // quantized lon
	y int64 // quantized lat
}

func quantize(p point) qpoint {
	return qpoint{
		x: int64(p.lon*quantum + copysignHalf(p.lon)),
		y: int64(p.lat*quantum + copysignHalf(p.lat)),
	}
}

func copysignHalf(v float64) float64 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}

func qless(a, b qpoint) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	return a.y < b.y
}

// edge is an undirected segment in canonical order (a < b).
type edge struct {
	a, b qpoint
}

func newEdge(a, b qpoint) edge {
	if qless(b, a) {
		a, b = b, a
	}
	return edge{a: a, b: b}
}

// unionRings computes the geometric union of the ring boundaries: every
// distinct edge appears exactly once (a border shared by two counties
// collapses to a single line), and the surviving edges are stitched through
// degree-2 vertices into maximal polylines. Output order is deterministic.
func unionRings(rings [][]point) [][]point {
	coords := make(map[qpoint]point)
	edges := make(map[edge]struct{})

	for _, ring := range rings {
		prev := quantize(ring[0])
		if _, ok := coords[prev]; !ok {
			coords[prev] = ring[0]
		}
		for _, p := range ring[1:] {
			q := quantize(p)
			if _, ok := coords[q]; !ok {
				coords[q] = p
			}
			if q != prev {
				edges[newEdge(prev, q)] = struct{}{}
			}
			prev = q
		}
	}

	adj := make(map[qpoint][]qpoint, len(coords))
	for e := range edges {
		adj[e.a] = append(adj[e.a], e.b)
		adj[e.b] = append(adj[e.b], e.a)
	}
	for q := range adj {
		neighbors := adj[q]
		sort.Slice(neighbors, func(i, j int) bool { return qless(neighbors[i], neighbors[j]) })
	}

	nodes := make([]qpoint, 0, len(adj))
	for q := range adj {
		nodes = append(nodes, q)
	}
	sort.Slice(nodes, func(i, j int) bool { return qless(nodes[i], nodes[j]) })

	used := make(map[edge]bool, len(edges))
	var pieces [][]point

	// Open polylines first: start walks at junctions and dead ends so a
	// piece never stops mid-chain.
	for _, n := range nodes {
		if len(adj[n]) == 2 {
			continue
		}
		for _, next := range adj[n] {
			if !used[newEdge(n, next)] {
				pieces = append(pieces, walk(n, next, adj, coords, used))
			}
		}
	}

	// What remains are closed loops made entirely of degree-2 vertices.
	for _, n := range nodes {
		for _, next := range adj[n] {
			if !used[newEdge(n, next)] {
				pieces = append(pieces, walk(n, next, adj, coords, used))
			}
		}
	}

	return pieces
}

// walk consumes edges from start through cur, extending through degree-2
// vertices until it reaches a junction, a dead end, or a used edge (loop
// closure).
func walk(start, cur qpoint, adj map[qpoint][]qpoint, coords map[qpoint]point, used map[edge]bool) []point {
	piece := []point{coords[start], coords[cur]}
	used[newEdge(start, cur)] = true

	prev := start
	for {
		neighbors := adj[cur]
		if len(neighbors) != 2 {
			return piece
		}

		next := neighbors[0]
		if next == prev {
			next = neighbors[1]
		}
		if used[newEdge(cur, next)] {
			return piece
		}

		used[newEdge(cur, next)] = true
		piece = append(piece, coords[next])
		prev, cur = cur, next
	}
}
