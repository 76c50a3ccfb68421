package heuristic

import (
	"fmt"
	"sort"
	"strings"

	"millwright/judgment/pkg/rulelang/ast"
)

// Node is a node of a fitted classification tree. Samples with
// feature value <= Threshold go left.
type Node struct {
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node

	Leaf     bool
	Class    int
	Samples  int
	Impurity float64
}

// Model is a binary classification tree fitted with the Gini criterion.
type Model struct {
	Features []string
	Root     *Node

	// Depth is the number of splits on the longest path.
	Depth int
	// Leaves is the number of leaf nodes.
	Leaves int
	// Accuracy is the share of training samples classified correctly.
	Accuracy float64
	// Importance is the normalized Gini importance of each feature.
	Importance map[string]float64
}

// Predict classifies one feature vector: 1 for positive, 0 for negative.
func (m *Model) Predict(x []float64) int {
	n := m.Root
	for n != nil && !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return 0
	}
	return n.Class
}

// PositivePaths renders the decision path to every positive leaf as a
// rule expression, e.g. "temperature > 84.5 && vibration <= 50".
func (m *Model) PositivePaths() []string {
	var paths []string
	var walk func(n *Node, conds []string)
	walk = func(n *Node, conds []string) {
		if n == nil {
			return
		}
		if n.Leaf {
			if n.Class == 1 {
				if len(conds) == 0 {
					paths = append(paths, "true")
				} else {
					paths = append(paths, strings.Join(conds, " && "))
				}
			}
			return
		}
		name := m.Features[n.Feature]
		t := ast.FormatNumber(n.Threshold)
		walk(n.Left, append(conds[:len(conds):len(conds)], fmt.Sprintf("%s <= %s", name, t)))
		walk(n.Right, append(conds[:len(conds):len(conds)], fmt.Sprintf("%s > %s", name, t)))
	}
	walk(m.Root, nil)
	return paths
}

// treeBuilder grows a CART tree over a dense matrix.
type treeBuilder struct {
	x               [][]float64
	y               []int
	maxDepth        int
	minSamplesSplit int

	importance []float64
	depth      int
	leaves     int
}

// fitTree fits a classification tree. Rows of x must all have
// len(features) columns; y holds 0 or 1 per row.
func fitTree(features []string, x [][]float64, y []int, maxDepth, minSamplesSplit int) *Model {
	b := &treeBuilder{
		x:               x,
		y:               y,
		maxDepth:        maxDepth,
		minSamplesSplit: minSamplesSplit,
		importance:      make([]float64, len(features)),
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	root := b.build(idx, 0)

	model := &Model{
		Features:   features,
		Root:       root,
		Depth:      b.depth,
		Leaves:     b.leaves,
		Importance: make(map[string]float64, len(features)),
	}

	var total float64
	for _, v := range b.importance {
		total += v
	}
	for i, name := range features {
		if total > 0 {
			model.Importance[name] = b.importance[i] / total
		} else {
			model.Importance[name] = 0
		}
	}

	correct := 0
	for i, row := range x {
		if model.Predict(row) == y[i] {
			correct++
		}
	}
	if len(x) > 0 {
		model.Accuracy = float64(correct) / float64(len(x))
	}

	return model
}

func (b *treeBuilder) build(idx []int, depth int) *Node {
	pos := 0
	for _, i := range idx {
		pos += b.y[i]
	}
	n := len(idx)
	impurity := gini(pos, n)

	node := &Node{Samples: n, Impurity: impurity, Class: majority(pos, n)}

	if depth >= b.maxDepth || n < b.minSamplesSplit || impurity == 0 {
		return b.leaf(node, depth)
	}

	feature, threshold, ok := b.bestSplit(idx, pos, impurity)
	if !ok {
		return b.leaf(node, depth)
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	leftPos := 0
	for _, i := range left {
		leftPos += b.y[i]
	}
	weighted := float64(len(left))*gini(leftPos, len(left)) + float64(len(right))*gini(pos-leftPos, len(right))
	b.importance[feature] += float64(n)*impurity - weighted

	node.Feature = feature
	node.Threshold = threshold
	node.Left = b.build(left, depth+1)
	node.Right = b.build(right, depth+1)
	return node
}

func (b *treeBuilder) leaf(node *Node, depth int) *Node {
	node.Leaf = true
	b.leaves++
	b.depth = max(b.depth, depth)
	return node
}

// bestSplit finds the feature and midpoint threshold with the lowest
// weighted Gini impurity. Ties keep the earliest feature and threshold.
func (b *treeBuilder) bestSplit(idx []int, pos int, parent float64) (int, float64, bool) {
	n := len(idx)
	best := parent * float64(n)
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, n)
	for f := 0; f < len(b.importance); f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		leftPos := 0
		for k := 1; k < n; k++ {
			leftPos += b.y[sorted[k-1]]
			lo, hi := b.x[sorted[k-1]][f], b.x[sorted[k]][f]
			if lo == hi {
				continue
			}
			score := float64(k)*gini(leftPos, k) + float64(n-k)*gini(pos-leftPos, n-k)
			if score < best-1e-12 {
				best = score
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
				if bestThreshold >= hi {
					bestThreshold = lo
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 1 - p*p - (1-p)*(1-p)
}

func majority(pos, n int) int {
	if 2*pos > n {
		return 1
	}
	return 0
}
