package sim

import (
	"math"
	"math/cmplx"

	"qbench/domain/circuit"
	"qbench/domain/noise"
)

// mat4 is a 4x4 complex matrix over the two-qubit basis |q0 q1>, row major.
type mat4 [4][4]complex128

// gateMatrix1 returns the 2x2 unitary for a single-qubit gate, or false for
// gates the engine does not implement.
func gateMatrix1(op circuit.Operation) (noise.Mat2, bool) {
	switch op.Gate {
	case circuit.GateH:
		h := complex(1/math.Sqrt2, 0)
		return noise.Mat2{{h, h}, {h, -h}}, true
	case circuit.GateX:
		return noise.Mat2{{0, 1}, {1, 0}}, true
	case circuit.GateY:
		return noise.Mat2{{0, -1i}, {1i, 0}}, true
	case circuit.GateZ:
		return noise.Mat2{{1, 0}, {0, -1}}, true
	case circuit.GateS:
		return noise.Mat2{{1, 0}, {0, 1i}}, true
	case circuit.GateSdg:
		return noise.Mat2{{1, 0}, {0, -1i}}, true
	case circuit.GateT:
		return noise.Mat2{{1, 0}, {0, cmplx.Exp(1i * math.Pi / 4)}}, true
	case circuit.GateTdg:
		return noise.Mat2{{1, 0}, {0, cmplx.Exp(-1i * math.Pi / 4)}}, true
	case circuit.GateRX:
		c := complex(math.Cos(op.Angle/2), 0)
		s := complex(math.Sin(op.Angle/2), 0)
		return noise.Mat2{{c, -1i * s}, {-1i * s, c}}, true
	case circuit.GateRY:
		c := complex(math.Cos(op.Angle/2), 0)
		s := complex(math.Sin(op.Angle/2), 0)
		return noise.Mat2{{c, -s}, {s, c}}, true
	case circuit.GateRZ:
		return noise.Mat2{
			{cmplx.Exp(complex(0, -op.Angle/2)), 0},
			{0, cmplx.Exp(complex(0, op.Angle/2))},
		}, true
	}
	return noise.Mat2{}, false
}

// gateMatrix2 returns the 4x4 unitary for a two-qubit gate in the
// |q0 q1> = {00, 01, 10, 11} basis, q0 being the first operand.
func gateMatrix2(op circuit.Operation) (mat4, bool) {
	switch op.Gate {
	case circuit.GateCX:
		return mat4{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
			{0, 0, 1, 0},
		}, true
	case circuit.GateCZ:
		return mat4{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, -1},
		}, true
	case circuit.GateSwap:
		return mat4{
			{1, 0, 0, 0},
			{0, 0, 1, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
		}, true
	}
	return mat4{}, false
}

// qubitBit returns the basis-index bit mask for a qubit under the convention
// that qubit 0 is the most significant bit.
func qubitBit(numQubits, q int) int {
	return 1 << (numQubits - 1 - q)
}

// conjugate1 applies rho -> M rho M^dagger for a (not necessarily unitary)
// 2x2 matrix acting on qubit q. rho is a dense d*d matrix, row major.
func conjugate1(rho []complex128, numQubits, q int, m noise.Mat2) {
	d := 1 << numQubits
	bit := qubitBit(numQubits, q)

	// Left multiply: rows mix within (r, r|bit) pairs.
	for r0 := 0; r0 < d; r0++ {
		if r0&bit != 0 {
			continue
		}
		r1 := r0 | bit
		for c := 0; c < d; c++ {
			a, b := rho[r0*d+c], rho[r1*d+c]
			rho[r0*d+c] = m[0][0]*a + m[0][1]*b
			rho[r1*d+c] = m[1][0]*a + m[1][1]*b
		}
	}

	// Right multiply by M^dagger: columns mix within (c, c|bit) pairs.
	m00, m01 := cmplx.Conj(m[0][0]), cmplx.Conj(m[0][1])
	m10, m11 := cmplx.Conj(m[1][0]), cmplx.Conj(m[1][1])
	for r := 0; r < d; r++ {
		base := r * d
		for c0 := 0; c0 < d; c0++ {
			if c0&bit != 0 {
				continue
			}
			c1 := c0 | bit
			a, b := rho[base+c0], rho[base+c1]
			rho[base+c0] = a*m00 + b*m01
			rho[base+c1] = a*m10 + b*m11
		}
	}
}

// conjugate2 applies rho -> U rho U^dagger for a 4x4 unitary acting on the
// ordered qubit pair (q0, q1).
func conjugate2(rho []complex128, numQubits, q0, q1 int, u mat4) {
	d := 1 << numQubits
	b0 := qubitBit(numQubits, q0)
	b1 := qubitBit(numQubits, q1)
	mask := b0 | b1
	offsets := [4]int{0, b1, b0, b0 | b1}

	var v, w [4]complex128

	// Left multiply.
	for r := 0; r < d; r++ {
		if r&mask != 0 {
			continue
		}
		for c := 0; c < d; c++ {
			for k := 0; k < 4; k++ {
				v[k] = rho[(r|offsets[k])*d+c]
			}
			for k := 0; k < 4; k++ {
				w[k] = u[k][0]*v[0] + u[k][1]*v[1] + u[k][2]*v[2] + u[k][3]*v[3]
			}
			for k := 0; k < 4; k++ {
				rho[(r|offsets[k])*d+c] = w[k]
			}
		}
	}

	// Right multiply by U^dagger.
	var uc mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			uc[i][j] = cmplx.Conj(u[i][j])
		}
	}
	for r := 0; r < d; r++ {
		base := r * d
		for c := 0; c < d; c++ {
			if c&mask != 0 {
				continue
			}
			for k := 0; k < 4; k++ {
				v[k] = rho[base+(c|offsets[k])]
			}
			for k := 0; k < 4; k++ {
				w[k] = v[0]*uc[k][0] + v[1]*uc[k][1] + v[2]*uc[k][2] + v[3]*uc[k][3]
			}
			for k := 0; k < 4; k++ {
				rho[base+(c|offsets[k])] = w[k]
			}
		}
	}
}

// applyKraus applies a single-qubit Kraus set to qubit q:
// rho -> sum_k K rho K^dagger. scratch and out must each hold len(rho)
// elements; rho holds the result on return.
func applyKraus(rho, scratch, out []complex128, numQubits, q int, ks []noise.Mat2) {
	for i := range out {
		out[i] = 0
	}
	for _, k := range ks {
		copy(scratch, rho)
		conjugate1(scratch, numQubits, q, k)
		for i := range out {
			out[i] += scratch[i]
		}
	}
	copy(rho, out)
}
