/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import "strings"

// Tree is a nested token tree. Intermediate nodes are Trees; leaves are
// maps holding a "$value" key.
type Tree map[string]any

// NewTree returns an empty tree.
func NewTree() Tree {
	return Tree{}
}

// IsLeaf reports whether node is a token leaf.
func IsLeaf(node any) bool {
	m, ok := asMap(node)
	if !ok {
		return false
	}
	_, has := m["$value"]
	return has
}

func asMap(node any) (map[string]any, bool) {
	switch m := node.(type) {
	case Tree:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// Set stores leaf at path, creating intermediate groups as needed.
// An existing leaf in the way of the path is replaced by a group.
func (t Tree) Set(path []string, leaf map[string]any) {
	if len(path) == 0 {
		return
	}
	current := map[string]any(t)
	for _, seg := range path[:len(path)-1] {
		next, ok := asMap(current[seg])
		if !ok || IsLeaf(next) {
			next = map[string]any{}
			current[seg] = next
		}
		current = next
	}
	current[path[len(path)-1]] = leaf
}

// Get returns the node at path.
func (t Tree) Get(path []string) (any, bool) {
	var node any = map[string]any(t)
	for _, seg := range path {
		m, ok := asMap(node)
		if !ok {
			return nil, false
		}
		node, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// Has reports whether a node exists at path.
func (t Tree) Has(path ...string) bool {
	_, ok := t.Get(path)
	return ok
}

// Delete removes the node at path.
func (t Tree) Delete(path []string) {
	if len(path) == 0 {
		return
	}
	parent, ok := t.Get(path[:len(path)-1])
	if !ok {
		return
	}
	if m, ok := asMap(parent); ok {
		delete(m, path[len(path)-1])
	}
}

// Subtree returns the group at path as a Tree.
func (t Tree) Subtree(path ...string) (Tree, bool) {
	node, ok := t.Get(path)
	if !ok || IsLeaf(node) {
		return nil, false
	}
	m, ok := asMap(node)
	return Tree(m), ok
}

// Walk visits every leaf in sorted key order.
func (t Tree) Walk(fn func(path []string, leaf map[string]any)) {
	walkNode(map[string]any(t), nil, fn)
}

func walkNode(node map[string]any, path []string, fn func([]string, map[string]any)) {
	for _, k := range SortedKeys(node) {
		if strings.HasPrefix(k, "$") {
			continue
		}
		child, ok := asMap(node[k])
		if !ok {
			continue
		}
		p := append(path[:len(path):len(path)], k)
		if IsLeaf(child) {
			fn(p, child)
			continue
		}
		walkNode(child, p, fn)
	}
}

// Leaves returns the number of token leaves.
func (t Tree) Leaves() int {
	n := 0
	t.Walk(func([]string, map[string]any) { n++ })
	return n
}
