package ring

// NumberTheoreticTransformer is an interface to provide
// flexibility on what type of NTT is used by the struct Ring.
type NumberTheoreticTransformer interface {
	Forward(p1, p2 []uint64)
	ForwardLazy(p1, p2 []uint64)
	Backward(p1, p2 []uint64)
	BackwardLazy(p1, p2 []uint64)
}

type numberTheoreticTransformerBase struct {
	n                           int
	nInv, modulus, mredConstant uint64
	bredConstant                [2]uint64
	rootsForward, rootsBackward []uint64
}

// NumberTheoreticTransformerStandard computes the standard negacyclic NTT in the ring Z[X]/(X^N+1).
type NumberTheoreticTransformerStandard struct {
	numberTheoreticTransformerBase
}

// NewNumberTheoreticTransformerStandard instantiates a new NumberTheoreticTransformerStandard from a SubRing.
func NewNumberTheoreticTransformerStandard(r *SubRing, n int) NumberTheoreticTransformer {
	return NumberTheoreticTransformerStandard{
		numberTheoreticTransformerBase: numberTheoreticTransformerBase{
			n:             n,
			nInv:          r.NInv,
			modulus:       r.Modulus,
			mredConstant:  r.MRedConstant,
			bredConstant:  r.BRedConstant,
			rootsForward:  r.RootsForward,
			rootsBackward: r.RootsBackward,
		},
	}
}

// Forward writes the forward NTT in Z[X]/(X^N+1) of p1 on p2.
func (rntt NumberTheoreticTransformerStandard) Forward(p1, p2 []uint64) {
	nttStandard(p1, p2, rntt.n, rntt.modulus, rntt.mredConstant, rntt.bredConstant, rntt.rootsForward)
}

// ForwardLazy writes the forward NTT in Z[X]/(X^N+1) of p1 on p2
// with p2 in [0, 6q-1].
func (rntt NumberTheoreticTransformerStandard) ForwardLazy(p1, p2 []uint64) {
	nttStandardLazy(p1, p2, rntt.n, rntt.modulus, rntt.mredConstant, rntt.rootsForward)
}

// Backward writes the backward NTT in Z[X]/(X^N+1) of p1 on p2.
func (rntt NumberTheoreticTransformerStandard) Backward(p1, p2 []uint64) {
	inttStandard(p1, p2, rntt.n, rntt.modulus, rntt.nInv, rntt.mredConstant, rntt.rootsBackward)
}

// BackwardLazy writes the backward NTT in Z[X]/(X^N+1) of p1 on p2
// with p2 in [0, 2q-1].
func (rntt NumberTheoreticTransformerStandard) BackwardLazy(p1, p2 []uint64) {
	inttStandardLazy(p1, p2, rntt.n, rntt.modulus, rntt.nInv, rntt.mredConstant, rntt.rootsBackward)
}

// NTT evaluates p2 = NTT(p1) on the SubRing.
func (s *SubRing) NTT(p1, p2 []uint64) {
	s.ntt.Forward(p1, p2)
}

// NTTLazy evaluates p2 = NTT(p1) on the SubRing with p2 in [0, 6q-1].
func (s *SubRing) NTTLazy(p1, p2 []uint64) {
	s.ntt.ForwardLazy(p1, p2)
}

// INTT evaluates p2 = INTT(p1) on the SubRing.
func (s *SubRing) INTT(p1, p2 []uint64) {
	s.ntt.Backward(p1, p2)
}

// INTTLazy evaluates p2 = INTT(p1) on the SubRing with p2 in [0, 2q-1].
func (s *SubRing) INTTLazy(p1, p2 []uint64) {
	s.ntt.BackwardLazy(p1, p2)
}

// NTT evaluates p2 = NTT(p1).
func (r Ring) NTT(p1, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.NTT(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// INTT evaluates p2 = INTT(p1).
func (r Ring) INTT(p1, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.INTT(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// butterfly computes X, Y = U + V*Psi, U - V*Psi mod Q.
//
// The input U is allowed to be in [0, 4q-1]; outputs are in [0, 6q-1].
func butterfly(U, V, Psi, twoQ, fourQ, Q, QInv uint64) (uint64, uint64) {
	if U >= fourQ {
		U -= fourQ
	}
	V = MRedLazy(V, Psi, Q, QInv)
	return U + V, U + twoQ - V
}

// invbutterfly computes X, Y = U + V, (U - V) * Psi mod Q.
//
// Inputs are allowed to be in [0, 2q-1]; outputs are in [0, 2q-1].
func invbutterfly(U, V, Psi, twoQ, fourQ, Q, QInv uint64) (X, Y uint64) {
	X = U + V
	if X >= twoQ {
		X -= twoQ
	}
	Y = MRedLazy(U+fourQ-V, Psi, Q, QInv) // requires Q < 2^61
	return
}

// nttStandard computes the negacyclic NTT on the input coefficients, with
// the output coefficients in [0, q-1].
func nttStandard(p1, p2 []uint64, N int, Q, QInv uint64, BRedConstant [2]uint64, rootsForward []uint64) {
	nttStandardLazy(p1, p2, N, Q, QInv, rootsForward)
	for i := range p2 {
		p2[i] = BRedAdd(p2[i], Q, BRedConstant)
	}
}

// nttStandardLazy computes the negacyclic NTT on the input coefficients using
// a decimation-in-time Cooley-Tukey recursion over the Montgomery-form,
// bit-reversed powers of the primitive 2N-th root of unity. Reductions are
// delayed: the output coefficients are in [0, 6q-1].
func nttStandardLazy(p1, p2 []uint64, N int, Q, QInv uint64, rootsForward []uint64) {

	var j1, j2 int
	var F uint64

	fourQ := 4 * Q
	twoQ := 2 * Q

	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}

	t := N
	for m := 1; m < N; m <<= 1 {

		t >>= 1

		for i := 0; i < m; i++ {

			j1 = 2 * i * t
			j2 = j1 + t

			F = rootsForward[m+i]

			for j := j1; j < j2; j++ {
				p2[j], p2[j+t] = butterfly(p2[j], p2[j+t], F, twoQ, fourQ, Q, QInv)
			}
		}
	}
}

// inttStandard evaluates p2 = INTT(p1), with the output coefficients in [0, q-1].
func inttStandard(p1, p2 []uint64, N int, Q, NInv, QInv uint64, rootsBackward []uint64) {
	inttCore(p1, p2, N, Q, QInv, rootsBackward)
	for i := range p2 {
		p2[i] = MRed(p2[i], NInv, Q, QInv)
	}
}

// inttStandardLazy evaluates p2 = INTT(p1) with the output coefficients in [0, 2q-1].
func inttStandardLazy(p1, p2 []uint64, N int, Q, NInv, QInv uint64, rootsBackward []uint64) {
	inttCore(p1, p2, N, Q, QInv, rootsBackward)
	for i := range p2 {
		p2[i] = MRedLazy(p2[i], NInv, Q, QInv)
	}
}

// inttCore computes the Gentleman-Sande recursion of the inverse negacyclic
// NTT, without the final multiplication by N^-1. The input coefficients must
// be in [0, 2q-1] (canonical inputs qualify); outputs are in [0, 2q-1] up to
// the missing N^-1 factor.
func inttCore(p1, p2 []uint64, N int, Q, QInv uint64, rootsBackward []uint64) {

	var h, j1, j2 int
	var F uint64

	fourQ := 4 * Q
	twoQ := 2 * Q

	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}

	t := 1
	for m := N; m > 1; m >>= 1 {

		j1 = 0
		h = m >> 1

		for i := 0; i < h; i++ {

			j2 = j1 + t

			F = rootsBackward[h+i]

			for j := j1; j < j2; j++ {
				p2[j], p2[j+t] = invbutterfly(p2[j], p2[j+t], F, twoQ, fourQ, Q, QInv)
			}

			j1 += t << 1
		}

		t <<= 1
	}
}
