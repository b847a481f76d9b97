package bayesian

import "gonum.org/v1/gonum/mat"

// MatrixPool reuses kernel-matrix allocations across GP refits. The
// training set grows by one row per optimizer iteration, so pooled
// matrices are only handed back out when the requested order matches.
type MatrixPool struct {
	sym []*mat.SymDense
}

// NewMatrixPool creates an empty MatrixPool.
func NewMatrixPool() *MatrixPool {
	return &MatrixPool{sym: make([]*mat.SymDense, 0, 4)}
}

// GetSymDense returns an n-by-n symmetric matrix, reusing a pooled one
// when available.
func (p *MatrixPool) GetSymDense(n int) *mat.SymDense {
	for i, m := range p.sym {
		if m.SymmetricDim() == n {
			p.sym = append(p.sym[:i], p.sym[i+1:]...)
			m.Zero()
			return m
		}
	}
	return mat.NewSymDense(n, nil)
}

// PutSymDense returns a matrix to the pool.
func (p *MatrixPool) PutSymDense(m *mat.SymDense) {
	p.sym = append(p.sym, m)
}
