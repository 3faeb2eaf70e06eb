package rstanarm

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//LM is the legacy single-outcome variant of the joint model: Gaussian
//likelihood with identity link, J independent group blocks sharing one
//coefficient prior, and no family or link dispatch. It reuses the same
//reparameterization and prior pieces as the full assembler.
type LM struct {
	Groups []*LMGroup

	HasIntercept   bool
	CoefPrior      *CoefPriorSpec
	InterceptPrior *ScalarPriorSpec
	AuxPrior       *ScalarPriorSpec

	PriorPredictive bool
}

//LMGroup is one block of the legacy variant: its own outcome, design
//matrix, and predictor means.
type LMGroup struct {
	Y    []float64
	X    *mat.Dense
	Xbar []float64
	N, K int
}

//LMParams holds one parameter point of the legacy variant, per group.
type LMParams struct {
	Gamma  []float64   // intercepts, one per group when HasIntercept
	ZBeta  [][]float64 // primitive coefficients per group
	AuxUns []float64   // unscaled residual SD primitives per group
}

//LogPosterior will evaluate the legacy variant's unnormalized log-posterior:
//the Gaussian-only special case of the joint assembler, looped over group
//blocks instead of submodels.
func (lm *LM) LogPosterior(p *LMParams) (float64, error) {
	lp := 0.
	for j, g := range lm.Groups {
		sigma := MakeAux(p.AuxUns[j], lm.AuxPrior)
		beta, err := MakeBeta(p.ZBeta[j], lm.CoefPrior, nil, 1)
		if err != nil {
			return 0, err
		}
		if !lm.PriorPredictive {
			sm := &Submodel{YReal: g.Y, Family: FamGaussian, Link: LinkIdentity, N: g.N}
			eta := make([]float64, g.N)
			for n := 0; n < g.N; n++ {
				eta[n] = floats.Dot(g.X.RawRowView(n), beta)
				if lm.HasIntercept {
					eta[n] += p.Gamma[j]
				}
			}
			ll, err := sm.LogLik(eta, sigma)
			if err != nil {
				return 0, err
			}
			lp += ll
		}
		if lm.HasIntercept {
			lp += InterceptLP(p.Gamma[j], lm.InterceptPrior)
		}
		lp += BetaLP(p.ZBeta[j], lm.CoefPrior, nil)
		lp += AuxLP(p.AuxUns[j], lm.AuxPrior)
	}
	return lp, nil
}

//Recenter will return the recentred intercepts of the legacy variant, one
//per group, as a reporting quantity.
func (lm *LM) Recenter(p *LMParams) ([]float64, error) {
	if !lm.HasIntercept {
		return nil, nil
	}
	alpha := make([]float64, len(lm.Groups))
	for j, g := range lm.Groups {
		beta, err := MakeBeta(p.ZBeta[j], lm.CoefPrior, nil, 1)
		if err != nil {
			return nil, err
		}
		alpha[j] = p.Gamma[j] - floats.Dot(g.Xbar, beta)
	}
	return alpha, nil
}
