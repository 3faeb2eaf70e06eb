package rstanarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDecovLayoutOffsets(t *testing.T) {
	// no terms
	d := NewDecovLayout(nil, nil)
	require.Equal(t, 0, d.LenZB)
	require.Equal(t, 0, d.LenThetaL)

	// one scalar term
	d = NewDecovLayout([]int{1}, []int{5})
	require.Equal(t, 5, d.LenZB)
	require.Equal(t, 1, d.LenThetaL)
	require.Equal(t, 0, d.LenRho)
	require.Equal(t, 0, d.LenZeta)

	// two terms, p=1 then p=3: theta_L advances by p + choose(p,2)
	d = NewDecovLayout([]int{1, 3}, []int{4, 2})
	require.Equal(t, 1*4+3*2, d.LenZB)
	require.Equal(t, 1+(3+3), d.LenThetaL)
	require.Equal(t, 2, d.LenRho)
	require.Equal(t, 3, d.LenZeta)
	require.Equal(t, 2, d.LenZT)
	require.Equal(t, []float64{9, 9, 9, 9, 9, 9}, d.ZBSeg(
		[]float64{0, 0, 0, 0, 9, 9, 9, 9, 9, 9}, 1))
	require.Len(t, d.ThetaLSeg(make([]float64, 7), 1), 6)
}

func TestMakeThetaLScalarTerm(t *testing.T) {
	d := NewDecovLayout([]int{1}, []int{3})
	thetaL := MakeThetaL(d, 2.0, []float64{1.5}, []float64{3.0}, nil, nil, nil)
	require.Len(t, thetaL, 1)
	require.InDelta(t, 1.5*3.0*2.0, thetaL[0], 1e-14)
}

func TestMakeThetaLTraceAndCorrelation(t *testing.T) {
	d := NewDecovLayout([]int{2}, []int{4})
	tau, scale := []float64{2.0}, []float64{1.0}
	zeta := []float64{3.0, 1.0} // simplex (0.75, 0.25)
	rho := []float64{0.8}       // T21 correlation = 2*0.8-1 = 0.6
	thetaL := MakeThetaL(d, 1.0, tau, scale, zeta, rho, nil)
	require.Len(t, thetaL, 3)

	trace := 2.0 * 2.0 * 2 // (tau*scale*dispersion)^2 * p
	t00, t10, t11 := thetaL[0], thetaL[1], thetaL[2]
	require.InDelta(t, 0.75*trace, t00*t00, 1e-12)
	require.InDelta(t, 0.25*trace, t10*t10+t11*t11, 1e-12)
	require.InDelta(t, 0.6, t10/math.Sqrt(0.25*trace), 1e-12)
}

func TestMakeThetaLOnionRowNorms(t *testing.T) {
	d := NewDecovLayout([]int{3}, []int{2})
	tau, scale := []float64{1.0}, []float64{1.0}
	zeta := []float64{1, 1, 1}
	rho := []float64{0.5, 0.3}
	zT := []float64{0.7, -0.2}
	thetaL := MakeThetaL(d, 1.0, tau, scale, zeta, rho, zT)
	require.Len(t, thetaL, 6)

	// rebuild the triangular block from the documented vech layout
	T := mat.NewTriDense(3, mat.Lower, nil)
	T.SetTri(0, 0, thetaL[0])
	T.SetTri(1, 0, thetaL[1])
	T.SetTri(2, 0, thetaL[2])
	T.SetTri(1, 1, thetaL[3])
	T.SetTri(2, 1, thetaL[4])
	T.SetTri(2, 2, thetaL[5])

	trace := 3.0 // (1*1*1)^2 * p
	for r := 0; r < 3; r++ {
		n2 := 0.
		for c := 0; c <= r; c++ {
			n2 += T.At(r, c) * T.At(r, c)
		}
		require.InDelta(t, trace/3, n2, 1e-12, "row %d variance", r)
	}
	// the third row splits rho[1] of its variance off the diagonal
	off := T.At(2, 0)*T.At(2, 0) + T.At(2, 1)*T.At(2, 1)
	require.InDelta(t, 0.3*(trace/3), off, 1e-12)
	// and the scaled onion keeps the off-diagonal direction of z_T
	require.InDelta(t, -0.2/0.7, T.At(2, 1)/T.At(2, 0), 1e-12)
}

func TestMakeBScalarAndTriangular(t *testing.T) {
	d := NewDecovLayout([]int{1, 2}, []int{2, 2})
	// term 1: pure scale 3; term 2: lower triangular [[2,0],[1,4]]
	thetaL := []float64{3, 2, 1, 4}
	zb := []float64{1, -1, 0.5, 0.5, 1, 2}
	b := MakeB(zb, thetaL, d)
	require.InDeltaSlice(t, []float64{
		3, -3, // term 1, two levels
		2 * 0.5, 1*0.5 + 4*0.5, // term 2 level 1
		2 * 1, 1*1 + 4*2, // term 2 level 2
	}, b, 1e-14)
}

func TestGroupCoefsRowsFollowPartitionOrder(t *testing.T) {
	d := NewDecovLayout([]int{2}, []int{3})
	b := []float64{1, 2, 3, 4, 5, 6}
	rows := d.GroupCoefs(b, 0)
	require.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, rows)
}

func TestMakeBMatLKJSingleCoef(t *testing.T) {
	z := mat.NewDense(1, 3, []float64{1, -2, 0.5})
	b := MakeBMatLKJ([]float64{2}, nil, z, 3)
	require.InDeltaSlice(t, []float64{2}, b[0], 1e-14)
	require.InDeltaSlice(t, []float64{-4}, b[1], 1e-14)
	require.InDeltaSlice(t, []float64{1}, b[2], 1e-14)
}

func TestMakeBMatLKJMultiCoef(t *testing.T) {
	chol := mat.NewTriDense(2, mat.Lower, nil)
	chol.SetTri(0, 0, 1)
	chol.SetTri(1, 0, 0.6)
	chol.SetTri(1, 1, 0.8)
	sd := []float64{2, 3}
	z := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	b := MakeBMatLKJ(sd, chol, z, 2)
	// diag(sd)*chol = [[2,0],[1.8,2.4]]; columns of the product transpose
	// into level rows
	require.InDeltaSlice(t, []float64{2, 1.8}, b[0], 1e-14)
	require.InDeltaSlice(t, []float64{0, 2.4}, b[1], 1e-14)
}
