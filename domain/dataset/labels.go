package dataset

import (
	"fmt"

	"fscompare/domain/core"
)

// Labels holds one class label per sample row. Classes are numbered 1..NumClasses.
type Labels []int

// Validate checks that every label is a positive class number.
func (l Labels) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: no labels", core.ErrInvalidLabels)
	}
	for i, v := range l {
		if v < 1 {
			return fmt.Errorf("%w: sample %d has label %d (labels start at 1)", core.ErrInvalidLabels, i, v)
		}
	}
	return nil
}

// NumClasses is the largest label value.
func (l Labels) NumClasses() int {
	hi := 0
	for _, v := range l {
		if v > hi {
			hi = v
		}
	}
	return hi
}

// ClassCounts returns counts indexed by class-1 for classes 1..numClasses.
// Labels outside that range are ignored.
func (l Labels) ClassCounts(numClasses int) []int {
	counts := make([]int, numClasses)
	for _, v := range l {
		if v >= 1 && v <= numClasses {
			counts[v-1]++
		}
	}
	return counts
}

// ByClass groups sample indices per class, indexed by class-1, in sample order.
func (l Labels) ByClass(numClasses int) [][]int {
	groups := make([][]int, numClasses)
	for i, v := range l {
		if v >= 1 && v <= numClasses {
			groups[v-1] = append(groups[v-1], i)
		}
	}
	return groups
}

// Select returns the labels of the given sample indices.
func (l Labels) Select(indices []int) Labels {
	out := make(Labels, len(indices))
	for i, idx := range indices {
		out[i] = l[idx]
	}
	return out
}
