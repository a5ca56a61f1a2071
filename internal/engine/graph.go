package engine

// depGraph tracks, for every formula cell, the set of cells it reads.
// Ranges are expanded to their member coordinates when edges are
// added, so an edit inside a referenced range dirties its observers.
type depGraph struct {
	precedents map[Coord]map[Coord]struct{} // formula -> cells it reads
	dependents map[Coord]map[Coord]struct{} // cell -> formulas that read it
}

func newDepGraph() *depGraph {
	return &depGraph{
		precedents: make(map[Coord]map[Coord]struct{}),
		dependents: make(map[Coord]map[Coord]struct{}),
	}
}

// setFormula replaces the precedent set for a formula cell.
func (g *depGraph) setFormula(coord Coord, reads map[Coord]struct{}) {
	g.removeFormula(coord)

	precedents := make(map[Coord]struct{}, len(reads))
	for read := range reads {
		precedents[read] = struct{}{}
		if g.dependents[read] == nil {
			g.dependents[read] = make(map[Coord]struct{})
		}
		g.dependents[read][coord] = struct{}{}
	}
	g.precedents[coord] = precedents
}

// removeFormula drops a formula cell and its edges.
func (g *depGraph) removeFormula(coord Coord) {
	for read := range g.precedents[coord] {
		delete(g.dependents[read], coord)
		if len(g.dependents[read]) == 0 {
			delete(g.dependents, read)
		}
	}
	delete(g.precedents, coord)
}

// affected returns every formula cell whose value can change when the
// given cell changes, including the cell itself when it holds a
// formula. Traversal follows dependent edges transitively.
func (g *depGraph) affected(start Coord) map[Coord]struct{} {
	out := make(map[Coord]struct{})
	queue := []Coord{start}
	seen := map[Coord]struct{}{start: {}}

	for len(queue) > 0 {
		coord := queue[0]
		queue = queue[1:]

		if _, isFormula := g.precedents[coord]; isFormula {
			out[coord] = struct{}{}
		}
		for dependent := range g.dependents[coord] {
			if _, ok := seen[dependent]; !ok {
				seen[dependent] = struct{}{}
				queue = append(queue, dependent)
			}
		}
	}
	return out
}

// allFormulas returns the full set of formula cells in the graph.
func (g *depGraph) allFormulas() map[Coord]struct{} {
	out := make(map[Coord]struct{}, len(g.precedents))
	for coord := range g.precedents {
		out[coord] = struct{}{}
	}
	return out
}

// order topologically sorts a set of formula cells so that every cell
// is evaluated after the cells it reads. Cells caught in a reference
// cycle cannot be ordered; they are returned separately so the caller
// can mark them with the circular error.
func (g *depGraph) order(cells map[Coord]struct{}) (ordered []Coord, cyclic []Coord) {
	// in-degree counts only edges between members of the set
	indegree := make(map[Coord]int, len(cells))
	for coord := range cells {
		count := 0
		for read := range g.precedents[coord] {
			if _, ok := cells[read]; ok {
				count++
			}
		}
		indegree[coord] = count
	}

	var ready []Coord
	for coord, count := range indegree {
		if count == 0 {
			ready = append(ready, coord)
		}
	}
	sortCoords(ready) // deterministic evaluation order

	for len(ready) > 0 {
		coord := ready[0]
		ready = ready[1:]
		ordered = append(ordered, coord)

		var unlocked []Coord
		for dependent := range g.dependents[coord] {
			if _, ok := cells[dependent]; !ok {
				continue
			}
			indegree[dependent]--
			if indegree[dependent] == 0 {
				unlocked = append(unlocked, dependent)
			}
		}
		sortCoords(unlocked)
		ready = append(ready, unlocked...)
	}

	if len(ordered) == len(cells) {
		return ordered, nil
	}

	// whatever Kahn could not schedule is in a cycle or strictly
	// downstream of one. Split the stuck set: true cycle members are
	// those that can reach themselves within the stuck subgraph.
	stuck := make(map[Coord]struct{})
	for coord, count := range indegree {
		if count > 0 {
			stuck[coord] = struct{}{}
		}
	}

	for coord := range stuck {
		if g.reachesSelf(coord, stuck) {
			cyclic = append(cyclic, coord)
		}
	}
	sortCoords(cyclic)

	// downstream-of-cycle cells evaluate after the cycle members are
	// marked; they read the error display and coerce it like any other
	// non-numeric content. Removing the cycle members leaves an acyclic
	// remainder, so a second pass orders it fully.
	cyclicSet := make(map[Coord]struct{}, len(cyclic))
	for _, coord := range cyclic {
		cyclicSet[coord] = struct{}{}
	}
	rest := make(map[Coord]struct{})
	for coord := range stuck {
		if _, ok := cyclicSet[coord]; !ok {
			rest[coord] = struct{}{}
		}
	}
	if len(rest) > 0 {
		restOrdered, _ := g.order(rest)
		ordered = append(ordered, restOrdered...)
	}

	return ordered, cyclic
}

// reachesSelf reports whether start can reach itself following
// dependent edges restricted to the given set.
func (g *depGraph) reachesSelf(start Coord, within map[Coord]struct{}) bool {
	queue := []Coord{start}
	seen := make(map[Coord]struct{})

	for len(queue) > 0 {
		coord := queue[0]
		queue = queue[1:]

		for dependent := range g.dependents[coord] {
			if dependent == start {
				return true
			}
			if _, ok := within[dependent]; !ok {
				continue
			}
			if _, ok := seen[dependent]; ok {
				continue
			}
			seen[dependent] = struct{}{}
			queue = append(queue, dependent)
		}
	}
	return false
}
