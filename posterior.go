package rstanarm

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Params holds one proposed parameter point in primitive space, grouped by
//submodel and covariance block. The sampler-facing flat ordering lives in
//ParamLayout; this struct is what the kernel consumes.
type Params struct {
	Gamma  []float64          // intercepts, one slot per submodel
	ZBeta  [][]float64        // primitive coefficient vectors per submodel
	Shrink []*ShrinkageParams // shrinkage latents per submodel, nil unless the tag needs them
	AuxUns []float64          // unscaled auxiliary primitives per submodel

	// decov strategy
	ZB   []float64
	ZT   []float64
	Rho  []float64
	Zeta []float64
	Tau  []float64

	// lkj strategy, one entry per grouping factor
	BSd  [][]float64
	BrCh []*mat.TriDense
	ZMat []*mat.Dense
}

//groupCoefs will build, per grouping factor, the level-by-coefficient
//matrix of group-level coefficients under the active strategy. dispersion
//feeds the decov trace scale.
func (mdl *Model) groupCoefs(p *Params, dispersion float64) [][][]float64 {
	if len(mdl.Groups) == 0 {
		return nil
	}
	out := make([][][]float64, len(mdl.Groups))
	switch mdl.CovPrior {
	case CovDecov:
		d := mdl.decov()
		thetaL := MakeThetaL(d, dispersion, p.Tau, mdl.Decov.Scale, p.Zeta, p.Rho, p.ZT)
		b := MakeB(p.ZB, thetaL, d)
		for i := range mdl.Groups {
			out[i] = d.GroupCoefs(b, i)
		}
	case CovLKJ:
		for i, g := range mdl.Groups {
			out[i] = MakeBMatLKJ(p.BSd[i], p.BrCh[i], p.ZMat[i], g.L)
		}
	}
	return out
}

//LogPosterior will evaluate the joint unnormalized log-posterior at p. The
//evaluation is a pure function of p and the fixed model; nothing persists
//between calls. The auxiliary parameters are scaled first because their
//running maximum caps the shrinkage-prior scales of the Gaussian submodels
//and the decov trace scale.
func (mdl *Model) LogPosterior(p *Params) (float64, error) {
	lp := 0.

	aux := make([]float64, len(mdl.Submodels))
	for i, sm := range mdl.Submodels {
		if sm.HasAux {
			aux[i] = MakeAux(p.AuxUns[i], sm.AuxPrior)
		}
	}
	auxMax := FoldAuxMax(aux)

	betas := make([][]float64, len(mdl.Submodels))
	for i, sm := range mdl.Submodels {
		if sm.K == 0 {
			continue
		}
		errScale := 1.0
		if sm.Family == FamGaussian {
			errScale = auxMax
		}
		beta, err := MakeBeta(p.ZBeta[i], sm.CoefPrior, p.Shrink[i], errScale)
		if err != nil {
			return 0, err
		}
		betas[i] = beta
	}

	b := mdl.groupCoefs(p, auxMax)

	for i, sm := range mdl.Submodels {
		eta := mdl.LinearPredictor(i, p.Gamma[i], betas[i], b)
		if !mdl.PriorPredictive {
			ll, err := sm.LogLik(eta, aux[i])
			if err != nil {
				return 0, err
			}
			lp += ll
		}
		if sm.Intercept != InterceptNone {
			lp += InterceptLP(p.Gamma[i], sm.InterceptPrior)
		}
		if sm.K > 0 {
			lp += BetaLP(p.ZBeta[i], sm.CoefPrior, p.Shrink[i])
		}
		if sm.HasAux {
			lp += AuxLP(p.AuxUns[i], sm.AuxPrior)
		}
	}

	switch mdl.CovPrior {
	case CovDecov:
		if len(mdl.Groups) > 0 {
			lp += DecovLP(p.ZB, p.ZT, p.Rho, p.Zeta, p.Tau, mdl.Decov, mdl.decov())
		}
	case CovLKJ:
		for i := range mdl.Groups {
			lp += LKJLP(p.BSd[i], p.BrCh[i], p.ZMat[i], mdl.LKJ[i])
		}
	}
	return lp, nil
}

//Report carries the derived reporting quantities of one parameter point.
//None of them enter the log-density.
type Report struct {
	//Alpha holds the recentred intercepts, one per submodel with an
	//intercept, indexed like Submodels.
	Alpha []float64
	//Corr holds one correlation matrix per grouping factor; a factor with
	//at most one coefficient reports the 1x1 identity.
	Corr []*mat.SymDense
}

//DeriveReport will compute the reporting quantities at p as a pure
//post-processing step: intercepts recentred against the predictor means,
//and correlation matrices recovered from the active covariance strategy.
func (mdl *Model) DeriveReport(p *Params) (*Report, error) {
	rep := &Report{Alpha: make([]float64, len(mdl.Submodels))}

	aux := make([]float64, len(mdl.Submodels))
	for i, sm := range mdl.Submodels {
		if sm.HasAux {
			aux[i] = MakeAux(p.AuxUns[i], sm.AuxPrior)
		}
	}
	auxMax := FoldAuxMax(aux)

	for i, sm := range mdl.Submodels {
		if sm.Intercept == InterceptNone {
			continue
		}
		rep.Alpha[i] = p.Gamma[i]
		if sm.K == 0 {
			continue
		}
		errScale := 1.0
		if sm.Family == FamGaussian {
			errScale = auxMax
		}
		beta, err := MakeBeta(p.ZBeta[i], sm.CoefPrior, p.Shrink[i], errScale)
		if err != nil {
			return nil, err
		}
		rep.Alpha[i] = p.Gamma[i] - floats.Dot(sm.Xbar, beta)
	}

	rep.Corr = make([]*mat.SymDense, len(mdl.Groups))
	for i, g := range mdl.Groups {
		if g.BK <= 1 {
			one := mat.NewSymDense(1, nil)
			one.SetSym(0, 0, 1.0)
			rep.Corr[i] = one
			continue
		}
		switch mdl.CovPrior {
		case CovLKJ:
			rep.Corr[i] = corrFromScaled(p.BrCh[i])
		case CovDecov:
			d := mdl.decov()
			thetaL := MakeThetaL(d, auxMax, p.Tau, mdl.Decov.Scale, p.Zeta, p.Rho, p.ZT)
			seg := d.ThetaLSeg(thetaL, i)
			nc := g.BK
			T := mat.NewTriDense(nc, mat.Lower, nil)
			mark := 0
			for c := 0; c < nc; c++ {
				T.SetTri(c, c, seg[mark])
				mark++
				for r := c + 1; r < nc; r++ {
					T.SetTri(r, c, seg[mark])
					mark++
				}
			}
			rep.Corr[i] = corrFromScaled(T)
		}
	}
	return rep, nil
}
