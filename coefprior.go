package rstanarm

import (
	"fmt"
	"math"
)

//CFt will push a standard-normal primitive toward a Student t variate with
//df degrees of freedom via the Cornish-Fisher expansion (Abramowitz &
//Stegun 26.7.5). As df grows the correction terms vanish and the primitive
//comes back unchanged, which is what keeps the normal prior nested inside
//the student-t one.
func CFt(z, df float64) float64 {
	z2 := z * z
	z3 := z2 * z
	z5 := z2 * z3
	z7 := z2 * z5
	z9 := z2 * z7
	df2 := df * df
	df3 := df2 * df
	df4 := df2 * df2
	return z + (z3+z)/(4*df) + (5*z5+16*z3+3*z)/(96*df2) +
		(3*z7+19*z5+17*z3-15*z)/(384*df3) +
		(79*z9+776*z7+1482*z5-1920*z3-945*z)/(92160*df4)
}

//hsPrior applies the horseshoe global-local shrinkage transform. The
//errorScale argument couples the coefficient scale to the residual scale
//for Gaussian outcomes and is 1 for every other family.
func hsPrior(zBeta []float64, global []float64, local [][]float64, globalScale, errorScale float64) []float64 {
	beta := make([]float64, len(zBeta))
	mult := global[0] * math.Sqrt(global[1]) * globalScale * errorScale
	for k, z := range zBeta {
		lambda := local[0][k] * math.Sqrt(local[1][k])
		beta[k] = z * lambda * mult
	}
	return beta
}

//hsplusPrior applies the horseshoe+ transform, which stacks a second
//local scale mixture on top of the horseshoe's.
func hsplusPrior(zBeta []float64, global []float64, local [][]float64, globalScale, errorScale float64) []float64 {
	beta := make([]float64, len(zBeta))
	mult := global[0] * math.Sqrt(global[1]) * globalScale * errorScale
	for k, z := range zBeta {
		lambda := local[0][k] * math.Sqrt(local[1][k])
		lambdaPlus := local[2][k] * math.Sqrt(local[3][k])
		beta[k] = z * lambda * lambdaPlus * mult
	}
	return beta
}

//MakeBeta will map the primitive coefficient vector onto the interpretable
//scale under the given prior family. errorScale feeds the shrinkage priors:
//callers pass the running auxiliary maximum for Gaussian submodels and 1
//otherwise. The returned vector has one entry per coefficient, which for
//the product-normal prior is shorter than the primitive vector.
func MakeBeta(zBeta []float64, spec *CoefPriorSpec, sh *ShrinkageParams, errorScale float64) ([]float64, error) {
	if spec == nil || spec.Tag == PriorCoefNone {
		return zBeta, nil
	}
	switch spec.Tag {
	case PriorCoefNormal:
		beta := make([]float64, len(zBeta))
		for k, z := range zBeta {
			beta[k] = z*spec.Scale[k] + spec.Mean[k]
		}
		return beta, nil
	case PriorCoefStudentT:
		beta := make([]float64, len(zBeta))
		for k, z := range zBeta {
			beta[k] = CFt(z, spec.Df[k])*spec.Scale[k] + spec.Mean[k]
		}
		return beta, nil
	case PriorCoefHS:
		return hsPrior(zBeta, sh.Global, sh.Local, spec.GlobalScale, errorScale), nil
	case PriorCoefHSPlus:
		return hsplusPrior(zBeta, sh.Global, sh.Local, spec.GlobalScale, errorScale), nil
	case PriorCoefLaplace:
		beta := make([]float64, len(zBeta))
		for k, z := range zBeta {
			beta[k] = spec.Mean[k] + spec.Scale[k]*math.Sqrt(2*sh.Mix[0])*z
		}
		return beta, nil
	case PriorCoefLasso:
		beta := make([]float64, len(zBeta))
		for k, z := range zBeta {
			beta[k] = spec.Mean[k] + sh.OOL*spec.Scale[k]*math.Sqrt(2*sh.Mix[0])*z
		}
		return beta, nil
	case PriorCoefProductNormal:
		beta := make([]float64, len(spec.NumNormals))
		pos := 0
		for k, m := range spec.NumNormals {
			b := zBeta[pos]
			pos++
			for n := 1; n < m; n++ {
				b *= zBeta[pos]
				pos++
			}
			b *= math.Pow(spec.Scale[k], float64(m))
			beta[k] = b + spec.Mean[k]
		}
		return beta, nil
	}
	return nil, fmt.Errorf("unrecognized coefficient prior tag %d", spec.Tag)
}
