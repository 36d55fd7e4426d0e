package forest

import (
	"math/rand"
	"sort"
)

// Node is a single tree node stored in a flat array. Leaf nodes have
// Feature == -1. Value holds the class distribution [P(lost), P(won)] of
// the training samples that reached the node; internal nodes keep it too
// because the attribution walk needs per-node probabilities.
type Node struct {
	Feature   int        `json:"f"`
	Threshold float64    `json:"t,omitempty"`
	Left      int        `json:"l,omitempty"`
	Right     int        `json:"r,omitempty"`
	Value     [2]float64 `json:"v"`
}

// Tree is a single binary classification tree grown with gini impurity.
// Node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// predictNode walks the tree for one sample and returns the index of the
// leaf it falls into
func (t *Tree) predictNode(x []float64) int {
	i := 0
	for t.Nodes[i].Feature >= 0 {
		n := &t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return i
}

// Proba returns the class distribution of the leaf one sample falls into
func (t *Tree) Proba(x []float64) [2]float64 {
	return t.Nodes[t.predictNode(x)].Value
}

// treeGrower carries the shared state of one tree fit
type treeGrower struct {
	x               [][]float64
	y               []int
	maxFeatures     int
	minSamplesSplit int
	rng             *rand.Rand
	nodes           []Node
}

// growTree fits a tree on the samples selected by idx. idx may contain
// duplicates (bootstrap sampling).
func growTree(x [][]float64, y []int, idx []int, maxFeatures, minSamplesSplit int, rng *rand.Rand) Tree {
	g := &treeGrower{
		x:               x,
		y:               y,
		maxFeatures:     maxFeatures,
		minSamplesSplit: minSamplesSplit,
		rng:             rng,
	}
	g.grow(idx)
	return Tree{Nodes: g.nodes}
}

// grow appends the node for idx and, if a useful split exists, its
// subtrees. Returns the index of the appended node.
func (g *treeGrower) grow(idx []int) int {
	self := len(g.nodes)
	g.nodes = append(g.nodes, Node{Feature: -1, Value: distribution(g.y, idx)})

	if len(idx) < g.minSamplesSplit || isPure(g.y, idx) {
		return self
	}
	feat, threshold, ok := g.bestSplit(idx)
	if !ok {
		return self
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if g.x[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	// Grow children before touching g.nodes[self]: the recursive appends
	// may reallocate the node slice.
	leftChild := g.grow(left)
	rightChild := g.grow(right)
	g.nodes[self].Feature = feat
	g.nodes[self].Threshold = threshold
	g.nodes[self].Left = leftChild
	g.nodes[self].Right = rightChild
	return self
}

// bestSplit searches a random subset of maxFeatures features for the
// threshold with the largest gini impurity decrease
func (g *treeGrower) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	nFeatures := len(g.x[idx[0]])
	parentImpurity := gini(g.y, idx)
	if parentImpurity == 0 {
		return 0, 0, false
	}

	bestGain := 0.0
	for _, feat := range g.sampleFeatures(nFeatures) {
		sorted := make([]int, len(idx))
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			return g.x[sorted[a]][feat] < g.x[sorted[b]][feat]
		})

		// Running class counts left of the candidate threshold
		var leftCounts, rightCounts [2]int
		for _, i := range sorted {
			rightCounts[g.y[i]]++
		}

		total := float64(len(sorted))
		for pos := 0; pos < len(sorted)-1; pos++ {
			i := sorted[pos]
			leftCounts[g.y[i]]++
			rightCounts[g.y[i]]--

			v, next := g.x[i][feat], g.x[sorted[pos+1]][feat]
			if v == next {
				continue
			}

			nLeft := float64(pos + 1)
			nRight := total - nLeft
			gain := parentImpurity -
				(nLeft/total)*giniCounts(leftCounts, nLeft) -
				(nRight/total)*giniCounts(rightCounts, nRight)
			if gain > bestGain {
				bestGain = gain
				feature = feat
				threshold = (v + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// sampleFeatures draws maxFeatures distinct feature indices
func (g *treeGrower) sampleFeatures(nFeatures int) []int {
	if g.maxFeatures >= nFeatures {
		all := make([]int, nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return g.rng.Perm(nFeatures)[:g.maxFeatures]
}

// distribution returns the normalized class distribution of the selected
// samples
func distribution(y []int, idx []int) [2]float64 {
	var counts [2]int
	for _, i := range idx {
		counts[y[i]]++
	}
	total := float64(len(idx))
	return [2]float64{float64(counts[0]) / total, float64(counts[1]) / total}
}

func isPure(y []int, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

func gini(y []int, idx []int) float64 {
	var counts [2]int
	for _, i := range idx {
		counts[y[i]]++
	}
	return giniCounts(counts, float64(len(idx)))
}

// giniCounts computes 1 - sum(p^2) from raw class counts
func giniCounts(counts [2]int, total float64) float64 {
	if total == 0 {
		return 0
	}
	p0 := float64(counts[0]) / total
	p1 := float64(counts[1]) / total
	return 1 - p0*p0 - p1*p1
}
