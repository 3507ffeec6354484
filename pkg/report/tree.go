/*
Copyright 2026 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package report

import "sort"

// Prune returns a copy of roots keeping the width heaviest children of every
// node down to depth levels. Zero or negative bounds disable the respective limit.
func Prune(roots []*CallNode, depth, width int) []*CallNode {
	return pruneLevel(roots, 1, depth, width)
}

func pruneLevel(nodes []*CallNode, level, depth, width int) []*CallNode {
	if len(nodes) == 0 || (depth > 0 && level > depth) {
		return nil
	}
	sorted := make([]*CallNode, len(nodes))
	copy(sorted, nodes)
	sortNodes(sorted)
	if width > 0 && len(sorted) > width {
		sorted = sorted[:width]
	}

	out := make([]*CallNode, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, &CallNode{
			Name:           n.Name,
			CumulativeTime: n.CumulativeTime,
			Children:       pruneLevel(n.Children, level+1, depth, width),
		})
	}
	return out
}

func sortNodes(nodes []*CallNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].CumulativeTime != nodes[j].CumulativeTime {
			return nodes[i].CumulativeTime > nodes[j].CumulativeTime
		}
		return nodes[i].Name < nodes[j].Name
	})
}

// Walk visits every node depth first, passing its depth (roots are 0).
func Walk(roots []*CallNode, fn func(n *CallNode, depth int)) {
	var visit func(nodes []*CallNode, depth int)
	visit = func(nodes []*CallNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(roots, 0)
}
