package rstanarm

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

//InterceptLP will return the prior log-density of a raw intercept. The
//reparameterized (recentred) intercept never enters a prior term.
func InterceptLP(gamma float64, spec *ScalarPriorSpec) float64 {
	if spec == nil {
		return 0
	}
	switch spec.Tag {
	case PriorScalarNormal:
		return distuv.Normal{Mu: spec.Mean, Sigma: spec.Scale}.LogProb(gamma)
	case PriorScalarStudentT:
		return distuv.StudentsT{Mu: spec.Mean, Sigma: spec.Scale, Nu: spec.Df}.LogProb(gamma)
	}
	return 0
}

//AuxLP will return the prior log-density of the unscaled auxiliary
//primitive. The location families are half distributions on the positive
//primitive, hence the log-2 correction.
func AuxLP(unscaled float64, spec *ScalarPriorSpec) float64 {
	if spec == nil || spec.Tag == PriorScalarNone || spec.Scale <= 0 {
		return 0
	}
	switch spec.Tag {
	case PriorScalarNormal:
		return stdNormal.LogProb(unscaled) + math.Ln2
	case PriorScalarStudentT:
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: spec.Df}.LogProb(unscaled) + math.Ln2
	case PriorScalarExponential:
		return distuv.Exponential{Rate: 1}.LogProb(unscaled)
	}
	return 0
}

//BetaLP will accumulate the coefficient prior on the primitive z vector.
//The prior mean and scale never appear here; the reparameterization absorbs
//them. The shrinkage tags add the hyperpriors of their latent scales: a
//normal/inverse-gamma decomposition of the half-t on local and global
//scales for the horseshoe pair, an exponential mixing density for laplace
//and lasso, and a chi-square on the lasso's one-over-lambda.
func BetaLP(zBeta []float64, spec *CoefPriorSpec, sh *ShrinkageParams) float64 {
	if spec == nil || spec.Tag == PriorCoefNone {
		return 0
	}
	lp := stdNormalLogProbSum(zBeta)
	switch spec.Tag {
	case PriorCoefHS, PriorCoefHSPlus:
		lp += stdNormalLogProbSum(sh.Local[0]) + float64(len(sh.Local[0]))*math.Ln2
		for k, x := range sh.Local[1] {
			lp += distuv.InverseGamma{Alpha: 0.5 * spec.Df[k], Beta: 0.5 * spec.Df[k]}.LogProb(x)
		}
		if spec.Tag == PriorCoefHSPlus {
			lp += stdNormalLogProbSum(sh.Local[2]) + float64(len(sh.Local[2]))*math.Ln2
			for k, x := range sh.Local[3] {
				//the scale hyperparameter doubles as a second df here
				lp += distuv.InverseGamma{Alpha: 0.5 * spec.Scale[k], Beta: 0.5 * spec.Scale[k]}.LogProb(x)
			}
		}
		lp += stdNormal.LogProb(sh.Global[0]) + math.Ln2
		lp += distuv.InverseGamma{Alpha: 0.5 * spec.GlobalDf, Beta: 0.5 * spec.GlobalDf}.LogProb(sh.Global[1])
	case PriorCoefLaplace:
		lp += distuv.Exponential{Rate: 1}.LogProb(sh.Mix[0])
	case PriorCoefLasso:
		lp += distuv.Exponential{Rate: 1}.LogProb(sh.Mix[0])
		lp += distuv.ChiSquared{K: spec.Df[0]}.LogProb(sh.OOL)
	}
	return lp
}

//DecovLP will accumulate the joint prior of the decov strategy's
//primitives: standard normals on z_b and the onion rows, beta densities on
//the correlation primitives with the onion-schedule shapes, and gamma
//densities on the simplex and trace primitives.
func DecovLP(zb, zT, rho, zeta, tau []float64, spec *DecovSpec, d *DecovLayout) float64 {
	lp := stdNormalLogProbSum(zb) + stdNormalLogProbSum(zT)
	posReg, posRho := 0, 0
	for _, p := range d.P {
		if p <= 1 {
			continue
		}
		nu := spec.Regularization[posReg] + 0.5*float64(p-2)
		posReg++
		shape1, shape2 := nu, nu
		for j := 0; j < p-1; j++ {
			if j > 0 {
				nu -= 0.5
				shape1 = 0.5 * float64(j+2)
				shape2 = nu
			}
			lp += distuv.Beta{Alpha: shape1, Beta: shape2}.LogProb(rho[posRho])
			posRho++
		}
	}
	for k, z := range zeta {
		lp += distuv.Gamma{Alpha: spec.Concentration[k], Beta: 1}.LogProb(z)
	}
	for i, t := range tau {
		lp += distuv.Gamma{Alpha: spec.Shape[i], Beta: 1}.LogProb(t)
	}
	return lp
}

//LKJLP will accumulate the prior of one grouping factor under the lkj
//strategy: student-t on the SD vector, the LKJ kernel on the correlation
//Cholesky factor when the factor carries more than one coefficient, and
//standard normals on the primitive matrix.
func LKJLP(sd []float64, chol *mat.TriDense, z *mat.Dense, spec *LKJSpec) float64 {
	lp := 0.
	for k, s := range sd {
		lp += distuv.StudentsT{Mu: 0, Sigma: spec.Scale[k], Nu: spec.Df[k]}.LogProb(s)
	}
	if len(sd) > 1 {
		lp += lkjCorrCholeskyLogProb(chol, spec.Regularization)
	}
	r, c := z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x := z.At(i, j)
			lp -= 0.5*x*x + lnSqrt2Pi
		}
	}
	return lp
}
