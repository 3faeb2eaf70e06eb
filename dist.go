package rstanarm

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const lnSqrt2Pi = 0.9189385332046727 // log(sqrt(2*pi))

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

//stdNormalCDF is the standard normal CDF, used by the probit link.
func stdNormalCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

//stdNormalLogProbSum will sum the standard-normal log-density over a
//primitive vector.
func stdNormalLogProbSum(z []float64) float64 {
	lp := 0.
	for _, x := range z {
		lp -= 0.5*x*x + lnSqrt2Pi
	}
	return lp
}

//log1pExp computes log(1+exp(x)) without overflow.
func log1pExp(x float64) float64 {
	if x > 35 {
		return x
	}
	return math.Log1p(math.Exp(x))
}

//negBinomial2LogProb is the log-pmf of the mean/dispersion-parameterized
//negative binomial, the density distuv does not carry.
func negBinomial2LogProb(y float64, mu, phi float64) float64 {
	lg1, _ := math.Lgamma(y + phi)
	lg2, _ := math.Lgamma(phi)
	lg3, _ := math.Lgamma(y + 1)
	return lg1 - lg2 - lg3 + phi*math.Log(phi/(phi+mu)) + y*math.Log(mu/(phi+mu))
}

//invGaussianLogProb will return the inverse-Gaussian log-likelihood of a
//whole submodel, written with the precomputed sum-log and sqrt outcome
//terms so they are never rebuilt per evaluation.
func invGaussianLogProb(y, mu, sqrtY []float64, lambda, sumLogY float64) float64 {
	ss := 0.
	for i := range y {
		r := (y[i] - mu[i]) / (mu[i] * sqrtY[i])
		ss += r * r
	}
	n := float64(len(y))
	return 0.5*n*math.Log(lambda/(2*math.Pi)) - 1.5*sumLogY - 0.5*lambda*ss
}

//lkjCorrCholeskyLogProb is the LKJ log-density kernel of a lower-triangular
//Cholesky factor of a correlation matrix with shape eta. The eta-only
//normalizing constant is dropped; the posterior is unnormalized anyway.
func lkjCorrCholeskyLogProb(chol *mat.TriDense, eta float64) float64 {
	k, _ := chol.Dims()
	lp := 0.
	for i := 1; i < k; i++ {
		lp += (float64(k-i-1) + 2*eta - 2) * math.Log(chol.At(i, i))
	}
	return lp
}

//corrFromScaled will convert any lower-triangular scale matrix (rows with
//nonzero norm) into the correlation matrix of T*T'.
func corrFromScaled(t mat.Matrix) *mat.SymDense {
	k, _ := t.Dims()
	var tt mat.Dense
	tt.Mul(t, t.T())
	out := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			out.SetSym(i, j, tt.At(i, j)/math.Sqrt(tt.At(i, i)*tt.At(j, j)))
		}
	}
	return out
}
