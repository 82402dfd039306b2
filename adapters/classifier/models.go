package classifier

import (
	"fmt"
	"math"
	"sort"

	"fscompare/domain/dataset"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// model is a fitted classifier over standardized features.
type model interface {
	predict(x *mat.Dense) dataset.Labels
}

// classesOf returns the distinct training classes, ascending.
func classesOf(y dataset.Labels) []int {
	seen := make(map[int]bool)
	var classes []int
	for _, c := range y {
		if !seen[c] {
			seen[c] = true
			classes = append(classes, c)
		}
	}
	sort.Ints(classes)
	return classes
}

// classMeans returns one row per class in classes order.
func classMeans(x *mat.Dense, y dataset.Labels, classes []int) *mat.Dense {
	_, cols := x.Dims()
	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}
	means := mat.NewDense(len(classes), cols, nil)
	counts := make([]float64, len(classes))
	for i, c := range y {
		k := pos[c]
		counts[k]++
		floats.Add(means.RawRowView(k), x.RawRowView(i))
	}
	for k := range classes {
		floats.Scale(1/counts[k], means.RawRowView(k))
	}
	return means
}

// nearestCentroid assigns each sample to the class with the closest mean.
type nearestCentroid struct {
	classes   []int
	centroids *mat.Dense
}

func fitNearestCentroid(x *mat.Dense, y dataset.Labels) (model, error) {
	classes := classesOf(y)
	return &nearestCentroid{classes: classes, centroids: classMeans(x, y, classes)}, nil
}

func (m *nearestCentroid) predict(x *mat.Dense) dataset.Labels {
	rows, _ := x.Dims()
	out := make(dataset.Labels, rows)
	for i := 0; i < rows; i++ {
		row := x.RawRowView(i)
		best, bestDist := 0, math.Inf(1)
		for k := range m.classes {
			d := floats.Distance(row, m.centroids.RawRowView(k), 2)
			if d < bestDist {
				best, bestDist = k, d
			}
		}
		out[i] = m.classes[best]
	}
	return out
}

// knn is a k-nearest-neighbour majority vote; ties go to the class of the
// closest tied neighbour.
type knn struct {
	k int
	x *mat.Dense
	y dataset.Labels
}

func fitKNN(x *mat.Dense, y dataset.Labels, k int) (model, error) {
	rows, _ := x.Dims()
	if k < 1 {
		return nil, fmt.Errorf("knn: k must be positive, got %d", k)
	}
	if k > rows {
		k = rows
	}
	return &knn{k: k, x: x, y: y}, nil
}

func (m *knn) predict(x *mat.Dense) dataset.Labels {
	rows, _ := x.Dims()
	trainRows, _ := m.x.Dims()
	out := make(dataset.Labels, rows)
	order := make([]int, trainRows)
	dist := make([]float64, trainRows)

	for i := 0; i < rows; i++ {
		row := x.RawRowView(i)
		for t := 0; t < trainRows; t++ {
			order[t] = t
			dist[t] = floats.Distance(row, m.x.RawRowView(t), 2)
		}
		sort.SliceStable(order, func(a, b int) bool { return dist[order[a]] < dist[order[b]] })

		votes := make(map[int]int)
		bestClass, bestVotes := 0, 0
		for _, t := range order[:m.k] {
			votes[m.y[t]]++
		}
		for _, t := range order[:m.k] {
			if v := votes[m.y[t]]; v > bestVotes {
				bestClass, bestVotes = m.y[t], v
			}
		}
		out[i] = bestClass
	}
	return out
}

// linearDiscriminant is LDA with a shared, ridge-regularized covariance.
type linearDiscriminant struct {
	classes []int
	weights *mat.Dense // features x classes: Sigma^-1 * mu_c
	offsets []float64  // -0.5 mu_c' Sigma^-1 mu_c + log prior_c
}

func fitLinearDiscriminant(x *mat.Dense, y dataset.Labels, ridge float64) (model, error) {
	rows, cols := x.Dims()
	classes := classesOf(y)
	means := classMeans(x, y, classes)
	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		pos[c] = i
	}

	// pooled within-class scatter
	centered := mat.NewDense(rows, cols, nil)
	priors := make([]float64, len(classes))
	for i, c := range y {
		k := pos[c]
		priors[k]++
		floats.SubTo(centered.RawRowView(i), x.RawRowView(i), means.RawRowView(k))
	}
	var scatter mat.SymDense
	scatter.SymOuterK(1, centered.T())
	dof := float64(rows - len(classes))
	if dof < 1 {
		dof = 1
	}
	cov := mat.NewSymDense(cols, nil)
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			v := scatter.At(i, j) / dof
			if i == j {
				v += ridge
			}
			cov.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, fmt.Errorf("lda: covariance is not positive definite (ridge %g)", ridge)
	}
	var weights mat.Dense
	if err := chol.SolveTo(&weights, means.T()); err != nil {
		return nil, fmt.Errorf("lda: solve: %w", err)
	}

	offsets := make([]float64, len(classes))
	col := make([]float64, cols)
	for k := range classes {
		mat.Col(col, k, &weights)
		offsets[k] = -0.5*floats.Dot(means.RawRowView(k), col) + math.Log(priors[k]/float64(rows))
	}
	return &linearDiscriminant{classes: classes, weights: &weights, offsets: offsets}, nil
}

func (m *linearDiscriminant) predict(x *mat.Dense) dataset.Labels {
	var scores mat.Dense
	scores.Mul(x, m.weights)
	rows, _ := x.Dims()
	out := make(dataset.Labels, rows)
	for i := 0; i < rows; i++ {
		row := scores.RawRowView(i)
		floats.Add(row, m.offsets)
		out[i] = m.classes[floats.MaxIdx(row)]
	}
	return out
}
