package rstanarm

import (
	"errors"
	"math"
)

//Family identifies the outcome distribution of one submodel.
type Family int

const (
	FamGaussian Family = iota + 1
	FamGamma
	FamInvGaussian
	FamBernoulli
	FamBinomial
	FamPoisson
	FamNegBinomial
	FamPoissonGamma
)

//Link identifies the link function mapping the linear predictor onto the
//mean of the outcome distribution.
type Link int

const (
	LinkIdentity Link = iota + 1
	LinkLog
	LinkInverse
	LinkInverseSquared
	LinkLogit
	LinkProbit
	LinkCloglog
	LinkSqrt
)

//InterceptType selects the centering policy applied when the intercept is
//added to the linear predictor.
type InterceptType int

const (
	InterceptNone InterceptType = iota
	InterceptUnbounded
	InterceptLowerBounded // intercept is an upper bound on the shifted predictor
	InterceptUpperBounded // intercept is a lower bound on the shifted predictor
)

//The two evaluation-aborting configuration errors. Everything else in the
//model description is a closed enumeration validated before it reaches the
//kernel.
var (
	ErrBinomialTrials = errors.New("Binomial with >1 trials not allowed")
	ErrInvalidFamily  = errors.New("Invalid family")
)

//Continuous reports whether the family models a real-valued outcome.
func (f Family) Continuous() bool {
	return f == FamGaussian || f == FamGamma || f == FamInvGaussian
}

func (f Family) String() string {
	switch f {
	case FamGaussian:
		return "gaussian"
	case FamGamma:
		return "gamma"
	case FamInvGaussian:
		return "inverse-gaussian"
	case FamBernoulli:
		return "bernoulli"
	case FamBinomial:
		return "binomial"
	case FamPoisson:
		return "poisson"
	case FamNegBinomial:
		return "neg-binomial"
	case FamPoissonGamma:
		return "poisson-gamma"
	}
	return "unknown"
}

//linkinvCount inverts the link for the count families.
func linkinvCount(eta float64, link Link) float64 {
	switch link {
	case LinkLog:
		return math.Exp(eta)
	case LinkSqrt:
		return eta * eta
	default: // identity
		return eta
	}
}

//linkinvBern inverts the link for the Bernoulli family onto the
//probability scale.
func linkinvBern(eta float64, link Link) float64 {
	switch link {
	case LinkLogit:
		return 1. / (1. + math.Exp(-eta))
	case LinkProbit:
		return stdNormalCDF(eta)
	case LinkCloglog:
		return -math.Expm1(-math.Exp(eta))
	case LinkLog:
		return math.Exp(eta)
	default:
		return 1. / (1. + math.Exp(-eta))
	}
}

//linkinvPositive inverts the link for the Gamma and inverse-Gaussian
//families onto the positive mean scale.
func linkinvPositive(eta float64, link Link) float64 {
	switch link {
	case LinkLog:
		return math.Exp(eta)
	case LinkInverse:
		return 1. / eta
	case LinkInverseSquared:
		return 1. / math.Sqrt(eta)
	default: // identity
		return eta
	}
}
