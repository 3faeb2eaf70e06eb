package rstanarm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//Submodel holds the fixed data and prior configuration for one outcome
//within the joint model. Exactly one of YReal and YInt is set, matching the
//family. All fields are read-only during posterior evaluation.
type Submodel struct {
	YReal  []float64 // real-valued outcome, length N
	YInt   []int     // integer-valued outcome, length N
	Trials []int     // binomial trial counts, only consulted to reject the family

	X    *mat.Dense // EtaLen x K design matrix, nil when K == 0
	Xbar []float64  // predictor column means, used to recenter the intercept

	Family    Family
	Link      Link
	Intercept InterceptType
	HasAux    bool

	N      int // outcome length
	EtaLen int // linear predictor length, >= N for longitudinal designs
	K      int // number of fixed-effect predictors

	CoefPrior      *CoefPriorSpec
	InterceptPrior *ScalarPriorSpec
	AuxPrior       *ScalarPriorSpec

	// outcome summaries prepared once by Precompute
	sumLogY float64
	sqrtY   []float64
}

//Precompute will prepare the outcome summaries consumed by the Gamma and
//inverse-Gaussian densities. Call once after the data are assembled, never
//per evaluation.
func (sm *Submodel) Precompute() {
	if sm.Family != FamGamma && sm.Family != FamInvGaussian {
		return
	}
	sm.sumLogY = 0.
	for _, y := range sm.YReal {
		sm.sumLogY += math.Log(y)
	}
	if sm.Family == FamInvGaussian {
		sm.sqrtY = make([]float64, len(sm.YReal))
		for i, y := range sm.YReal {
			sm.sqrtY[i] = math.Sqrt(y)
		}
	}
}

//GroupFactor describes one grouping term whose coefficient block is shared
//across submodels. The block is partitioned contiguously in submodel order:
//submodel 1's coefficients first, then submodel 2's, then submodel 3's.
type GroupFactor struct {
	L   int   // number of levels (groups)
	BK  int   // total group-level coefficients across submodels
	Len []int // per-submodel coefficient counts, summing to BK

	//Z holds the group-level design rows, indexed [submodel][etaIndex][localCol].
	//Columns are local to the submodel: column j corresponds to global
	//coefficient index KShift(submodel)+j of this factor.
	Z [][][]float64

	//GroupOf maps each eta index of each submodel onto a level, 0-based.
	GroupOf [][]int
}

//KShift will return the partition offset of submodel m into this factor's
//coefficient block: the coefficient count contributed by earlier submodels.
func (g *GroupFactor) KShift(m int) int {
	s := 0
	for j := 0; j < m; j++ {
		s += g.Len[j]
	}
	return s
}

//CovStrategy selects the covariance prior parameterization. Exactly one
//strategy is active for the whole model; the two are never mixed.
type CovStrategy int

const (
	CovDecov CovStrategy = iota + 1
	CovLKJ
)

//DecovSpec carries the hyperparameters of the decov covariance prior.
//Terms follow the grouping factors in order, one term per factor, with
//term shape p = factor.BK and levels l = factor.L.
type DecovSpec struct {
	Shape          []float64 // gamma shape on the trace primitives, one per term
	Scale          []float64 // multiplier on the trace scale, one per term
	Regularization []float64 // correlation regularization, one per term with p > 1
	Concentration  []float64 // gamma shape on the simplex primitives, concatenated over terms with p > 1
}

//LKJSpec carries the hyperparameters of the lkj covariance prior for one
//grouping factor.
type LKJSpec struct {
	Df             []float64 // student-t df on each coefficient SD
	Scale          []float64 // student-t scale on each coefficient SD
	Regularization float64   // lkj correlation shape
}

//Model is the full fixed configuration of one joint posterior: up to three
//submodels, up to two grouping factors, and a single covariance strategy.
//A Model is immutable once built; evaluations are pure functions of the
//parameter values.
type Model struct {
	Submodels []*Submodel
	Groups    []*GroupFactor

	CovPrior CovStrategy
	Decov    *DecovSpec
	LKJ      []*LKJSpec // one per grouping factor, CovLKJ only

	//PriorPredictive suppresses the likelihood so the evaluation returns
	//the joint prior log-density only.
	PriorPredictive bool

	decovLayout *DecovLayout
	layout      *ParamLayout
}

//decov will return the term layout for the decov strategy. Init stores it
//on the model; an uninitialized model rebuilds it per call so evaluations
//never write shared state.
func (mdl *Model) decov() *DecovLayout {
	if mdl.decovLayout != nil {
		return mdl.decovLayout
	}
	return mdl.buildDecov()
}

func (mdl *Model) buildDecov() *DecovLayout {
	p := make([]int, len(mdl.Groups))
	l := make([]int, len(mdl.Groups))
	for i, g := range mdl.Groups {
		p[i] = g.BK
		l[i] = g.L
	}
	return NewDecovLayout(p, l)
}

//Init will precompute the layout tables from the model shape. Build calls
//it; hand-assembled models should call it once before evaluations begin.
//Evaluations themselves never mutate the model, so an initialized Model is
//safe to share across concurrent sampler chains.
func (mdl *Model) Init() {
	mdl.decovLayout = mdl.buildDecov()
	mdl.layout = mdl.buildLayout()
}
