package bayesian

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization"
	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/optimization/kernels"
)

// GP is the Gaussian process surrogate the optimizer fits over observed
// objective evaluations.
type GP struct {
	kernel   kernels.Kernel
	noiseVar float64

	// Training data.
	X *mat.Dense    // (n_samples, n_features)
	y *mat.VecDense // (n_samples)

	// Precomputed for prediction.
	alpha *mat.VecDense
	chol  *mat.Cholesky

	pool   *MatrixPool
	logger *zap.Logger
}

// NewGP creates a Gaussian process surrogate with the given kernel and
// observation noise variance. A nil logger disables logging.
func NewGP(kernel kernels.Kernel, noiseVar float64, logger *zap.Logger) *GP {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GP{
		kernel:   kernel,
		noiseVar: noiseVar,
		pool:     NewMatrixPool(),
		logger:   logger.Named("gaussian_process"),
	}
}

// Fit conditions the GP on the training data. The kernel matrix is
// factorized with a Cholesky decomposition; if the matrix is not positive
// definite the diagonal jitter is escalated before giving up.
func (gp *GP) Fit(X *mat.Dense, y *mat.VecDense) error {
	const op = "GP.Fit"

	if X == nil || y == nil {
		return optimization.WrapError(errors.New("input matrices must not be nil"), op)
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return optimization.WrapError(errors.New("input matrix X must not be empty"), op)
	}
	if yLen := y.Len(); nSamples != yLen {
		err := fmt.Errorf("dimension mismatch: X has %d samples but y has length %d", nSamples, yLen)
		return optimization.WrapError(err, op)
	}

	gp.logger.Debug("fitting GP model",
		zap.Int("samples", nSamples),
		zap.Int("features", nFeatures),
		zap.Float64("noise_var", gp.noiseVar),
	)

	gp.X = mat.DenseCopyOf(X)
	gp.y = mat.VecDenseCopyOf(y)

	K := gp.pool.GetSymDense(nSamples)
	defer gp.pool.PutSymDense(K)
	for i := 0; i < nSamples; i++ {
		xi := gp.X.RawRowView(i)
		K.SetSym(i, i, gp.kernel.Eval(xi, xi)+gp.noiseVar)
		for j := i + 1; j < nSamples; j++ {
			K.SetSym(i, j, gp.kernel.Eval(xi, gp.X.RawRowView(j)))
		}
	}

	// Escalate jitter until the factorization succeeds.
	jitter := 1e-12
	const maxAttempts = 10
	for attempt := 0; attempt < maxAttempts; attempt++ {
		Kj := mat.NewSymDense(nSamples, nil)
		Kj.CopySym(K)
		for i := 0; i < nSamples; i++ {
			Kj.SetSym(i, i, Kj.At(i, i)+jitter)
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(Kj); !ok {
			gp.logger.Debug("Cholesky factorization failed, increasing jitter",
				zap.Int("attempt", attempt+1),
				zap.Float64("jitter", jitter))
			jitter *= 10
			continue
		}

		alpha := mat.NewVecDense(nSamples, nil)
		if err := chol.SolveVecTo(alpha, gp.y); err != nil {
			gp.logger.Debug("Cholesky solve failed, increasing jitter",
				zap.Error(err),
				zap.Int("attempt", attempt+1))
			jitter *= 10
			continue
		}

		gp.alpha = alpha
		gp.chol = &chol
		return nil
	}

	err := fmt.Errorf("kernel matrix not positive definite after %d jitter attempts", maxAttempts)
	return optimization.WrapError(err, op)
}

// Predict returns the posterior mean and standard deviation at a single
// point.
func (gp *GP) Predict(x []float64) (mu, sigma float64, err error) {
	const op = "GP.Predict"

	if gp.X == nil || gp.alpha == nil || gp.chol == nil {
		return 0, 0, optimization.WrapError(errors.New("model not trained"), op)
	}
	nTrain, nFeatures := gp.X.Dims()
	if len(x) != nFeatures {
		return 0, 0, optimization.WrapError(
			fmt.Errorf("point has %d dimensions, model has %d", len(x), nFeatures), op)
	}

	kstar := mat.NewVecDense(nTrain, nil)
	for j := 0; j < nTrain; j++ {
		kstar.SetVec(j, gp.kernel.Eval(x, gp.X.RawRowView(j)))
	}

	mu = mat.Dot(kstar, gp.alpha)

	// var = k(x,x) + noise - k*^T K^-1 k*, via the Cholesky factor.
	v := mat.NewVecDense(nTrain, nil)
	if err := gp.chol.SolveVecTo(v, kstar); err != nil {
		return 0, 0, optimization.WrapError(fmt.Errorf("failed to solve linear system: %w", err), op)
	}
	variance := gp.kernel.Eval(x, x) + gp.noiseVar - mat.Dot(kstar, v)
	if variance < 0 {
		gp.logger.Debug("negative variance clamped to zero", zap.Float64("variance", variance))
		variance = 0
	}

	return mu, math.Sqrt(variance), nil
}
