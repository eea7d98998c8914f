package optimizer

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GPMinimizer is a from-scratch Gaussian-process surrogate minimizer: an
// RBF-kernel GP regresses the objective over every point sampled so far,
// and each subsequent point maximizes expected improvement over a random
// candidate pool. This replaces the source's dependency on skopt's
// gp_minimize — no equivalent library exists in the example corpus — while
// keeping its call shape: a deterministic seed, 10 bootstrap points, then
// model-guided acquisition for the remainder.
type GPMinimizer struct {
	seed        int64
	lengthScale float64
	noise       float64
	poolSize    int
}

// NewGPMinimizer returns a GP minimizer seeded for reproducibility.
func NewGPMinimizer(seed int64) *GPMinimizer {
	return &GPMinimizer{seed: seed, lengthScale: 0.2, noise: 1e-6, poolSize: 200}
}

// Minimize samples nCalls points (normalized to [0,1]^len(dims)) and
// evaluates objective at each. The first min(nCalls, 10) points are
// uniform pseudo-random draws from the seeded math/rand source, not a
// low-discrepancy sequence (per the Open Question decision: fewer than 10 evaluations
// means every point is a bootstrap point, no GP phase runs). Remaining
// points are chosen by maximizing expected improvement against the GP
// fitted on all points sampled so far.
func (g *GPMinimizer) Minimize(nCalls int, dims []Dimension, objective func([]float64) float64) []PointEval {
	d := len(dims)
	rng := rand.New(rand.NewSource(g.seed))

	bootstrap := nCalls
	if bootstrap > initialPoints {
		bootstrap = initialPoints
	}

	var history []PointEval
	for i := 0; i < bootstrap; i++ {
		point := randomPoint(rng, d)
		value := objective(point)
		history = append(history, PointEval{Point: point, Value: value})
	}

	for i := bootstrap; i < nCalls; i++ {
		next := g.proposeNext(rng, d, history)
		value := objective(next)
		history = append(history, PointEval{Point: next, Value: value})
	}

	return history
}

func randomPoint(rng *rand.Rand, d int) []float64 {
	p := make([]float64, d)
	for i := range p {
		p[i] = rng.Float64()
	}
	return p
}

// proposeNext fits a GP to history and returns the candidate (from a
// random pool) with the highest expected improvement over the current
// best (lowest) observed value.
func (g *GPMinimizer) proposeNext(rng *rand.Rand, d int, history []PointEval) []float64 {
	n := len(history)
	X := mat.NewDense(n, d, nil)
	y := make([]float64, n)
	best := math.Inf(1)
	for i, h := range history {
		X.SetRow(i, h.Point)
		y[i] = h.Value
		if h.Value < best {
			best = h.Value
		}
	}

	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			k := g.kernel(X.RawRowView(i), X.RawRowView(j))
			if i == j {
				k += g.noise
			}
			K.SetSym(i, j, k)
		}
	}

	var chol mat.Cholesky
	ok := chol.Factorize(K)

	var alpha mat.VecDense
	if ok {
		yVec := mat.NewVecDense(n, y)
		if err := chol.SolveVecTo(&alpha, yVec); err != nil {
			ok = false
		}
	}

	bestCandidate := randomPoint(rng, d)
	bestEI := math.Inf(-1)
	for c := 0; c < g.poolSize; c++ {
		candidate := randomPoint(rng, d)
		mu, sigma := g.posterior(candidate, X, &alpha, K, ok)
		ei := expectedImprovement(best, mu, sigma)
		if ei > bestEI {
			bestEI = ei
			bestCandidate = candidate
		}
	}
	return bestCandidate
}

func (g *GPMinimizer) kernel(a, b []float64) float64 {
	sumSq := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sumSq += diff * diff
	}
	return math.Exp(-sumSq / (2 * g.lengthScale * g.lengthScale))
}

func (g *GPMinimizer) posterior(x []float64, X *mat.Dense, alpha *mat.VecDense, K *mat.SymDense, ok bool) (mu, sigma float64) {
	n, _ := X.Dims()
	if !ok || n == 0 {
		return 0, 1
	}
	kStar := make([]float64, n)
	for i := 0; i < n; i++ {
		kStar[i] = g.kernel(x, X.RawRowView(i))
	}
	kVec := mat.NewVecDense(n, kStar)
	mu = mat.Dot(kVec, alpha)

	// Predictive variance: k(x,x) - k*^T K^-1 k*, approximated via a solve
	// against the dense Gram matrix (n is small: bounded by max_evaluations).
	dense := mat.DenseCopyOf(K)
	var v mat.VecDense
	if err := v.SolveVec(dense, kVec); err != nil {
		return mu, 1
	}
	variance := g.kernel(x, x) - mat.Dot(kVec, &v)
	if variance < 1e-12 {
		variance = 1e-12
	}
	return mu, math.Sqrt(variance)
}

// expectedImprovement computes EI for minimization at a point with
// predictive mean mu and stdev sigma, given the best (lowest) value seen.
func expectedImprovement(best, mu, sigma float64) float64 {
	if sigma <= 0 {
		if best-mu > 0 {
			return best - mu
		}
		return 0
	}
	z := (best - mu) / sigma
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	return (best-mu)*norm.CDF(z) + sigma*norm.Prob(z)
}
