package rstanarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeBetaNoneIsIdentity(t *testing.T) {
	z := []float64{0.3, -1.2, 2.0}
	beta, err := MakeBeta(z, nil, nil, 1)
	require.NoError(t, err)
	require.Equal(t, z, beta)

	beta, err = MakeBeta(z, &CoefPriorSpec{Tag: PriorCoefNone}, nil, 1)
	require.NoError(t, err)
	require.Equal(t, z, beta)
}

func TestMakeBetaNormalUnitScaleZeroMeanIsIdentity(t *testing.T) {
	z := []float64{0.3, -1.2, 2.0}
	spec := &CoefPriorSpec{
		Tag:   PriorCoefNormal,
		Mean:  []float64{0, 0, 0},
		Scale: []float64{1, 1, 1},
	}
	beta, err := MakeBeta(z, spec, nil, 1)
	require.NoError(t, err)
	require.InDeltaSlice(t, z, beta, 1e-15)
}

func TestMakeBetaNormal(t *testing.T) {
	spec := &CoefPriorSpec{
		Tag:   PriorCoefNormal,
		Mean:  []float64{1, -1},
		Scale: []float64{2, 0.5},
	}
	beta, err := MakeBeta([]float64{0.5, 2}, spec, nil, 1)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{2.0, 0.0}, beta, 1e-15)
}

func TestCFtLargeDfRecoversNormal(t *testing.T) {
	for _, z := range []float64{-2.3, -0.7, 0, 0.4, 1.9} {
		require.InDelta(t, z, CFt(z, 1e9), 1e-8)
	}
}

func TestMakeBetaStudentTLargeDf(t *testing.T) {
	spec := &CoefPriorSpec{
		Tag:   PriorCoefStudentT,
		Mean:  []float64{1},
		Scale: []float64{2},
		Df:    []float64{1e9},
	}
	beta, err := MakeBeta([]float64{0.7}, spec, nil, 1)
	require.NoError(t, err)
	require.InDelta(t, 1+2*0.7, beta[0], 1e-8)
}

func TestMakeBetaLaplaceAndLasso(t *testing.T) {
	z := []float64{1.5}
	sh := &ShrinkageParams{Mix: []float64{0.5}, OOL: 3.0}

	lap := &CoefPriorSpec{Tag: PriorCoefLaplace, Mean: []float64{1}, Scale: []float64{2}}
	beta, err := MakeBeta(z, lap, sh, 1)
	require.NoError(t, err)
	require.InDelta(t, 1+2*math.Sqrt(2*0.5)*1.5, beta[0], 1e-14)

	las := &CoefPriorSpec{Tag: PriorCoefLasso, Mean: []float64{1}, Scale: []float64{2}}
	beta, err = MakeBeta(z, las, sh, 1)
	require.NoError(t, err)
	require.InDelta(t, 1+3.0*2*math.Sqrt(2*0.5)*1.5, beta[0], 1e-14)
}

func TestMakeBetaHorseshoeCouplesToErrorScale(t *testing.T) {
	spec := &CoefPriorSpec{Tag: PriorCoefHS, GlobalScale: 0.1}
	sh := &ShrinkageParams{
		Global: []float64{0.5, 4.0},
		Local:  [][]float64{{2.0}, {9.0}},
	}
	z := []float64{1.0}
	// lambda = 2*sqrt(9) = 6; global mult = 0.5*sqrt(4)*0.1 = 0.1
	b1, err := MakeBeta(z, spec, sh, 1)
	require.NoError(t, err)
	require.InDelta(t, 6*0.1, b1[0], 1e-14)

	// a Gaussian submodel passes its residual scale, doubling the result
	b2, err := MakeBeta(z, spec, sh, 2)
	require.NoError(t, err)
	require.InDelta(t, 2*b1[0], b2[0], 1e-14)
}

func TestMakeBetaHorseshoePlus(t *testing.T) {
	spec := &CoefPriorSpec{Tag: PriorCoefHSPlus, GlobalScale: 1}
	sh := &ShrinkageParams{
		Global: []float64{1, 1},
		Local:  [][]float64{{2}, {4}, {3}, {1}},
	}
	beta, err := MakeBeta([]float64{1}, spec, sh, 1)
	require.NoError(t, err)
	// lambda = 2*2 = 4, lambda_plus = 3*1 = 3
	require.InDelta(t, 12.0, beta[0], 1e-14)
}

func TestMakeBetaProductNormal(t *testing.T) {
	spec := &CoefPriorSpec{
		Tag:        PriorCoefProductNormal,
		Mean:       []float64{1, 0},
		Scale:      []float64{2, 1},
		NumNormals: []int{2, 3},
	}
	z := []float64{0.5, 3, 2, -1, 4}
	beta, err := MakeBeta(z, spec, nil, 1)
	require.NoError(t, err)
	require.Len(t, beta, 2)
	require.InDelta(t, 0.5*3*4+1, beta[0], 1e-14)
	require.InDelta(t, 2*-1*4, beta[1], 1e-14)
}

func TestMakeBetaUnknownTagFails(t *testing.T) {
	_, err := MakeBeta([]float64{1}, &CoefPriorSpec{Tag: CoefPriorTag(42)}, nil, 1)
	require.Error(t, err)
}
