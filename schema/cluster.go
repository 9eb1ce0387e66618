package schema

import sacr "github.com/jamesainslie/go-sacr"

// Clusters groups mention indices that are connected through shared labels.
// Clusters are ordered by their first mention, and indices within a cluster
// are ascending. Mentions without labels form singleton clusters.
func Clusters(mentions []sacr.Mention) [][]int {
	parent := make([]int, len(mentions))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Keep the lowest index as root so clusters order by first mention.
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	owner := make(map[string]int)
	for i, m := range mentions {
		for _, label := range m.Labels {
			if j, ok := owner[label]; ok {
				union(j, i)
			} else {
				owner[label] = i
			}
		}
	}

	index := make(map[int]int)
	var clusters [][]int
	for i := range mentions {
		root := find(i)
		c, ok := index[root]
		if !ok {
			c = len(clusters)
			index[root] = c
			clusters = append(clusters, nil)
		}
		clusters[c] = append(clusters[c], i)
	}
	return clusters
}
