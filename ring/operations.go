package ring

// Add evaluates p3 = p1 + p2 coefficient-wise in the ring.
func (r Ring) Add(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.Add(p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i])
	}
}

// Sub evaluates p3 = p1 - p2 coefficient-wise in the ring.
func (r Ring) Sub(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.Sub(p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i])
	}
}

// Neg evaluates p2 = -p1 coefficient-wise in the ring.
func (r Ring) Neg(p1, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.Neg(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// Reduce evaluates p2 = p1 coefficient-wise mod modulus in the ring.
func (r Ring) Reduce(p1, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.Reduce(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// MulCoeffsBarrett evaluates p3 = p1 * p2 coefficient-wise in the ring, with Barrett reduction.
// The product is the dyadic product of the ring when both operands are in the NTT domain.
func (r Ring) MulCoeffsBarrett(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.MulCoeffsBarrett(p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i])
	}
}

// MulCoeffsBarrettThenAdd evaluates p3 = p3 + p1 * p2 coefficient-wise in the ring, with Barrett reduction.
func (r Ring) MulCoeffsBarrettThenAdd(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.MulCoeffsBarrettThenAdd(p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i])
	}
}

// Add evaluates p3 = p1 + p2 (mod modulus).
func (s *SubRing) Add(p1, p2, p3 []uint64) {
	modulus := s.Modulus
	for j := range p1 {
		p3[j] = CRed(p1[j]+p2[j], modulus)
	}
}

// Sub evaluates p3 = p1 - p2 (mod modulus).
func (s *SubRing) Sub(p1, p2, p3 []uint64) {
	modulus := s.Modulus
	for j := range p1 {
		p3[j] = CRed((p1[j]+modulus)-p2[j], modulus)
	}
}

// Neg evaluates p2 = -p1 (mod modulus).
// Expects the input coefficients to be in [0, modulus-1].
func (s *SubRing) Neg(p1, p2 []uint64) {
	modulus := s.Modulus
	for j := range p1 {
		p2[j] = CRed(modulus-p1[j], modulus)
	}
}

// Reduce evaluates p2 = p1 (mod modulus).
func (s *SubRing) Reduce(p1, p2 []uint64) {
	modulus := s.Modulus
	brc := s.BRedConstant
	for j := range p1 {
		p2[j] = BRedAdd(p1[j], modulus, brc)
	}
}

// MulCoeffsBarrett evaluates p3 = p1 * p2 (mod modulus).
func (s *SubRing) MulCoeffsBarrett(p1, p2, p3 []uint64) {
	modulus := s.Modulus
	brc := s.BRedConstant
	for j := range p1 {
		p3[j] = BRed(p1[j], p2[j], modulus, brc)
	}
}

// MulCoeffsBarrettThenAdd evaluates p3 = p3 + p1 * p2 (mod modulus).
func (s *SubRing) MulCoeffsBarrettThenAdd(p1, p2, p3 []uint64) {
	modulus := s.Modulus
	brc := s.BRedConstant
	for j := range p1 {
		p3[j] = CRed(p3[j]+BRed(p1[j], p2[j], modulus, brc), modulus)
	}
}
