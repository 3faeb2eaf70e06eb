package rstanarm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

//span is one contiguous block of the flat parameter vector.
type span struct {
	off, n int
}

func (s span) of(theta []float64) []float64 {
	return theta[s.off : s.off+s.n]
}

//subLayout locates one submodel's blocks.
type subLayout struct {
	gamma  int // index of the intercept, -1 when absent
	zBeta  span
	global span
	local  [4]span
	mix    span
	ool    int // -1 when absent
	aux    int // -1 when absent
}

//ParamLayout documents the fixed order of the flat parameter vector the
//external sampler supplies. Per submodel, in submodel order: intercept (if
//any), primitive coefficients, shrinkage latents (global pair, local
//vectors, mixing, one-over-lambda, as the prior tag requires), unscaled
//auxiliary (if any). Then the covariance block: under decov z_b, z_T, rho,
//zeta, tau; under lkj, per factor, the SD vector, the lower triangle of the
//correlation Cholesky factor column by column including the diagonal, and
//the primitive matrix column by column (one column per level).
type ParamLayout struct {
	subs []subLayout

	// decov spans
	zb, zT, rho, zeta, tau span

	// lkj spans, per factor
	sd, chol, zmat []span

	Total int
}

//Layout will return the flat-vector layout; every pack/unpack and vector
//evaluation goes through it. Init stores the layout on the model, and an
//uninitialized model rebuilds it per call instead of caching it, so no
//evaluation path writes shared state.
func (mdl *Model) Layout() *ParamLayout {
	if mdl.layout != nil {
		return mdl.layout
	}
	return mdl.buildLayout()
}

func (mdl *Model) buildLayout() *ParamLayout {
	lay := &ParamLayout{subs: make([]subLayout, len(mdl.Submodels))}
	pos := 0
	grab := func(n int) span {
		s := span{pos, n}
		pos += n
		return s
	}
	for i, sm := range mdl.Submodels {
		sub := subLayout{gamma: -1, ool: -1, aux: -1}
		if sm.Intercept != InterceptNone {
			sub.gamma = pos
			pos++
		}
		sub.zBeta = grab(sm.CoefPrior.ZLen(sm.K))
		if sm.K > 0 && sm.CoefPrior != nil {
			switch sm.CoefPrior.Tag {
			case PriorCoefHS:
				sub.global = grab(2)
				sub.local[0] = grab(sm.K)
				sub.local[1] = grab(sm.K)
			case PriorCoefHSPlus:
				sub.global = grab(2)
				for j := 0; j < 4; j++ {
					sub.local[j] = grab(sm.K)
				}
			case PriorCoefLaplace:
				sub.mix = grab(1)
			case PriorCoefLasso:
				sub.mix = grab(1)
				sub.ool = pos
				pos++
			}
		}
		if sm.HasAux {
			sub.aux = pos
			pos++
		}
		lay.subs[i] = sub
	}
	switch mdl.CovPrior {
	case CovDecov:
		d := mdl.decov()
		lay.zb = grab(d.LenZB)
		lay.zT = grab(d.LenZT)
		lay.rho = grab(d.LenRho)
		lay.zeta = grab(d.LenZeta)
		lay.tau = grab(len(d.P))
	case CovLKJ:
		for _, g := range mdl.Groups {
			lay.sd = append(lay.sd, grab(g.BK))
			tri := 0
			if g.BK > 1 {
				tri = g.BK * (g.BK + 1) / 2
			}
			lay.chol = append(lay.chol, grab(tri))
			lay.zmat = append(lay.zmat, grab(g.BK*g.L))
		}
	}
	lay.Total = pos
	return lay
}

//Unpack will view the flat vector theta as a structured parameter point.
//The returned Params aliases theta wherever possible; matrices are copied
//into their gonum shapes.
func (mdl *Model) Unpack(theta []float64) (*Params, error) {
	lay := mdl.Layout()
	if len(theta) != lay.Total {
		return nil, fmt.Errorf("parameter vector has length %d, model wants %d", len(theta), lay.Total)
	}
	p := &Params{
		Gamma:  make([]float64, len(mdl.Submodels)),
		ZBeta:  make([][]float64, len(mdl.Submodels)),
		Shrink: make([]*ShrinkageParams, len(mdl.Submodels)),
		AuxUns: make([]float64, len(mdl.Submodels)),
	}
	for i, sm := range mdl.Submodels {
		sub := lay.subs[i]
		if sub.gamma >= 0 {
			p.Gamma[i] = theta[sub.gamma]
		}
		p.ZBeta[i] = sub.zBeta.of(theta)
		if sm.K > 0 && sm.CoefPrior != nil {
			switch sm.CoefPrior.Tag {
			case PriorCoefHS:
				p.Shrink[i] = &ShrinkageParams{
					Global: sub.global.of(theta),
					Local:  [][]float64{sub.local[0].of(theta), sub.local[1].of(theta)},
				}
			case PriorCoefHSPlus:
				p.Shrink[i] = &ShrinkageParams{
					Global: sub.global.of(theta),
					Local: [][]float64{
						sub.local[0].of(theta), sub.local[1].of(theta),
						sub.local[2].of(theta), sub.local[3].of(theta),
					},
				}
			case PriorCoefLaplace:
				p.Shrink[i] = &ShrinkageParams{Mix: sub.mix.of(theta)}
			case PriorCoefLasso:
				p.Shrink[i] = &ShrinkageParams{Mix: sub.mix.of(theta), OOL: theta[sub.ool]}
			}
		}
		if sub.aux >= 0 {
			p.AuxUns[i] = theta[sub.aux]
		}
	}
	switch mdl.CovPrior {
	case CovDecov:
		p.ZB = lay.zb.of(theta)
		p.ZT = lay.zT.of(theta)
		p.Rho = lay.rho.of(theta)
		p.Zeta = lay.zeta.of(theta)
		p.Tau = lay.tau.of(theta)
	case CovLKJ:
		for i, g := range mdl.Groups {
			p.BSd = append(p.BSd, lay.sd[i].of(theta))
			tri := mat.NewTriDense(g.BK, mat.Lower, nil)
			if g.BK > 1 {
				seg := lay.chol[i].of(theta)
				mark := 0
				for c := 0; c < g.BK; c++ {
					for r := c; r < g.BK; r++ {
						tri.SetTri(r, c, seg[mark])
						mark++
					}
				}
			} else {
				tri.SetTri(0, 0, 1)
			}
			p.BrCh = append(p.BrCh, tri)
			z := mat.NewDense(g.BK, g.L, nil)
			seg := lay.zmat[i].of(theta)
			mark := 0
			for c := 0; c < g.L; c++ {
				for r := 0; r < g.BK; r++ {
					z.Set(r, c, seg[mark])
					mark++
				}
			}
			p.ZMat = append(p.ZMat, z)
		}
	}
	return p, nil
}

//LogPosteriorVec is the sampler-facing entry point: one flat vector in the
//documented order, one scalar log-density back.
func (mdl *Model) LogPosteriorVec(theta []float64) (float64, error) {
	p, err := mdl.Unpack(theta)
	if err != nil {
		return 0, err
	}
	return mdl.LogPosterior(p)
}

//Gradient will fill dst with the gradient of the log-posterior at theta by
//central finite differences, allocating dst when nil. An evaluation error
//inside the stencil surfaces as -Inf, which the sampler treats as a
//rejected point.
func (mdl *Model) Gradient(dst, theta []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(theta))
	}
	fd.Gradient(dst, func(x []float64) float64 {
		lp, err := mdl.LogPosteriorVec(x)
		if err != nil {
			return math.Inf(-1)
		}
		return lp
	}, theta, nil)
	return dst
}
