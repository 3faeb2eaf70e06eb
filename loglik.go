package rstanarm

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

//LogLik will accumulate the log-likelihood of one submodel given its
//assembled linear predictor and scaled auxiliary parameter. Only the first
//N entries of eta carry likelihood contributions; any longitudinal tail is
//consumed elsewhere. The two fatal configuration errors of the kernel both
//surface here.
func (sm *Submodel) LogLik(eta []float64, aux float64) (float64, error) {
	eta = eta[:sm.N]
	switch sm.Family {
	case FamGaussian:
		return sm.gaussianLogLik(eta, aux), nil
	case FamGamma:
		return sm.gammaLogLik(eta, aux), nil
	case FamInvGaussian:
		return sm.invGaussianLogLik(eta, aux), nil
	case FamBernoulli:
		return sm.bernoulliLogLik(eta), nil
	case FamBinomial:
		return 0, ErrBinomialTrials
	case FamPoisson, FamPoissonGamma:
		return sm.poissonLogLik(eta), nil
	case FamNegBinomial:
		return sm.negBinomialLogLik(eta, aux), nil
	}
	return 0, ErrInvalidFamily
}

func (sm *Submodel) gaussianLogLik(eta []float64, sigma float64) float64 {
	ll := 0.
	switch sm.Link {
	case LinkLog:
		for i, y := range sm.YReal {
			ll += distuv.LogNormal{Mu: eta[i], Sigma: sigma}.LogProb(y)
		}
	case LinkInverse:
		for i, y := range sm.YReal {
			ll += distuv.Normal{Mu: 1. / eta[i], Sigma: sigma}.LogProb(y)
		}
	default: // identity
		for i, y := range sm.YReal {
			ll += distuv.Normal{Mu: eta[i], Sigma: sigma}.LogProb(y)
		}
	}
	return ll
}

//gammaLogLik is the Gamma regression log-likelihood written around the
//precomputed sum of log outcomes, dispatching directly on the link.
func (sm *Submodel) gammaLogLik(eta []float64, shape float64) float64 {
	n := float64(len(sm.YReal))
	lg, _ := math.Lgamma(shape)
	ll := n*(shape*math.Log(shape)-lg) + (shape-1)*sm.sumLogY
	switch sm.Link {
	case LinkLog:
		s := 0.
		for i, y := range sm.YReal {
			s += y / math.Exp(eta[i])
		}
		ll -= shape*floats.Sum(eta) + shape*s
	case LinkIdentity:
		s, sl := 0., 0.
		for i, y := range sm.YReal {
			s += y / eta[i]
			sl += math.Log(eta[i])
		}
		ll -= shape*sl + shape*s
	default: // inverse
		sl := 0.
		for i := range sm.YReal {
			sl += math.Log(eta[i])
		}
		ll += shape*sl - shape*floats.Dot(eta, sm.YReal)
	}
	return ll
}

func (sm *Submodel) invGaussianLogLik(eta []float64, lambda float64) float64 {
	mu := make([]float64, len(eta))
	for i, e := range eta {
		mu[i] = linkinvPositive(e, sm.Link)
	}
	return invGaussianLogProb(sm.YReal, mu, sm.sqrtY, lambda, sm.sumLogY)
}

func (sm *Submodel) bernoulliLogLik(eta []float64) float64 {
	ll := 0.
	if sm.Link == LinkLogit {
		for i, y := range sm.YInt {
			if y == 1 {
				ll -= log1pExp(-eta[i])
			} else {
				ll -= log1pExp(eta[i])
			}
		}
		return ll
	}
	for i, y := range sm.YInt {
		p := linkinvBern(eta[i], sm.Link)
		if y == 1 {
			ll += math.Log(p)
		} else {
			ll += math.Log1p(-p)
		}
	}
	return ll
}

func (sm *Submodel) poissonLogLik(eta []float64) float64 {
	ll := 0.
	if sm.Link == LinkLog {
		for i, y := range sm.YInt {
			lg, _ := math.Lgamma(float64(y) + 1)
			ll += float64(y)*eta[i] - math.Exp(eta[i]) - lg
		}
		return ll
	}
	for i, y := range sm.YInt {
		ll += distuv.Poisson{Lambda: linkinvCount(eta[i], sm.Link)}.LogProb(float64(y))
	}
	return ll
}

func (sm *Submodel) negBinomialLogLik(eta []float64, phi float64) float64 {
	ll := 0.
	for i, y := range sm.YInt {
		mu := linkinvCount(eta[i], sm.Link)
		ll += negBinomial2LogProb(float64(y), mu, phi)
	}
	return ll
}
