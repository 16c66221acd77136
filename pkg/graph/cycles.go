/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package graph

import (
	"sort"
	"strings"
)

// Cycle is one dependency cycle, ordered from the first repeated node
// through the closing edge back to it.
type Cycle []string

// String renders the cycle as "a → b → c → a".
func (c Cycle) String() string {
	return strings.Join(c, " → ")
}

type visitState int

const (
	stateUnvisited visitState = iota
	stateInProgress
	stateDone
)

// DetectCycles runs a three-color depth-first search over all nodes,
// iterating every unvisited node as a new root so disconnected components
// are covered. Every back edge to an in-progress node yields one cycle;
// detection does not stop at the first.
//
// The returned order is the DFS post-order, so dependencies precede their
// dependents. It is only meaningful for cycle-free graphs and is nil
// whenever at least one cycle exists.
func DetectCycles(nodes map[string]*Node) ([]Cycle, []string) {
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	state := make(map[string]visitState, len(nodes))
	order := make([]string, 0, len(nodes))
	var cycles []Cycle
	var path []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = stateInProgress
		path = append(path, id)

		for _, dep := range nodes[id].Dependencies {
			switch state[dep] {
			case stateUnvisited:
				visit(dep)
			case stateInProgress:
				cycles = append(cycles, closeCycle(path, dep))
			case stateDone:
				// Already explored, nothing to do.
			}
		}

		path = path[:len(path)-1]
		state[id] = stateDone
		order = append(order, id)
	}

	for _, id := range ids {
		if state[id] == stateUnvisited {
			visit(id)
		}
	}

	if len(cycles) > 0 {
		return cycles, nil
	}
	return nil, order
}

// closeCycle extracts the cycle from the current DFS path: the segment
// starting at the back edge's target, with the target repeated at the end.
func closeCycle(path []string, target string) Cycle {
	start := 0
	for i, id := range path {
		if id == target {
			start = i
			break
		}
	}
	cycle := make(Cycle, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	cycle = append(cycle, target)
	return cycle
}
