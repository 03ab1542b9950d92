/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver provides token reference resolution.
package resolver

import (
	"errors"
	"fmt"
	"sort"

	"bennypowers.dev/tessera/token"
)

// ErrCircularReference is returned when tokens reference each other in a loop.
var ErrCircularReference = errors.New("circular reference detected")

// DependencyGraph represents a directed graph of token dependencies,
// keyed by token dot path.
type DependencyGraph struct {
	dependencies map[string][]string
	dependents   map[string][]string
	nodes        []string
	known        map[string]bool
}

// BuildDependencyGraph builds a dependency graph from a list of tokens.
func BuildDependencyGraph(tokens []*token.Token) *DependencyGraph {
	graph := &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		known:        make(map[string]bool),
	}

	for _, tok := range tokens {
		path := tok.DotPath()
		if !graph.known[path] {
			graph.known[path] = true
			graph.nodes = append(graph.nodes, path)
		}
	}
	sort.Strings(graph.nodes)

	for _, tok := range tokens {
		path := tok.DotPath()
		deps := uniq(token.RefsIn(tok.Source()))
		if len(deps) == 0 {
			continue
		}
		graph.dependencies[path] = deps
		for _, dep := range deps {
			graph.dependents[dep] = append(graph.dependents[dep], path)
		}
	}

	return graph
}

func uniq(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	out := refs[:0]
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// Has reports whether a token exists at path.
func (g *DependencyGraph) Has(path string) bool {
	return g.known[path]
}

// Dependencies returns the paths that the given token references.
func (g *DependencyGraph) Dependencies(path string) []string {
	if deps, ok := g.dependencies[path]; ok {
		return deps
	}
	return []string{}
}

// Dependents returns the paths of tokens that reference the given token.
func (g *DependencyGraph) Dependents(path string) []string {
	if deps, ok := g.dependents[path]; ok {
		return deps
	}
	return []string{}
}

// HasCycle returns true if the graph contains a circular dependency.
func (g *DependencyGraph) HasCycle() bool {
	return g.FindCycle() != nil
}

// FindCycle returns the cycle path if one exists, or nil if no cycle.
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, node := range g.nodes {
		if cycle := g.findCycleDFS(node, visited, recStack, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *DependencyGraph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		for i, n := range path {
			if n == node {
				return append(append([]string(nil), path[i:]...), node)
			}
		}
		panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

// TopologicalSort returns token paths in dependency order (dependencies first).
// Returns error if graph contains a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("%w: %v", ErrCircularReference, cycle)
	}

	visited := make(map[string]bool)
	result := []string{}

	for _, node := range g.nodes {
		if !visited[node] {
			g.topologicalSortDFS(node, visited, &result)
		}
	}

	return result, nil
}

func (g *DependencyGraph) topologicalSortDFS(node string, visited map[string]bool, stack *[]string) {
	visited[node] = true

	for _, dep := range g.dependencies[node] {
		if !visited[dep] && g.known[dep] {
			g.topologicalSortDFS(dep, visited, stack)
		}
	}

	*stack = append(*stack, node)
}
