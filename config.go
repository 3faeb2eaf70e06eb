package rstanarm

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

//Config is the YAML description of one joint model: data, family/link
//tags, and prior specifications. Building a Model from it performs all the
//validation the kernel itself assumes has already happened, so tags and
//dimensions are trustworthy by the time a posterior is evaluated.
type Config struct {
	Covariance      string           `yaml:"covariance"`
	PriorPredictive bool             `yaml:"prior_predictive"`
	Submodels       []SubmodelConfig `yaml:"submodels"`
	Groups          []GroupConfig    `yaml:"groups"`
	Decov           *DecovConfig     `yaml:"decov"`
}

type SubmodelConfig struct {
	Family      string      `yaml:"family"`
	Link        string      `yaml:"link"`
	Intercept   string      `yaml:"intercept"`
	OutcomeReal []float64   `yaml:"outcome_real"`
	OutcomeInt  []int       `yaml:"outcome_int"`
	Trials      []int       `yaml:"trials"`
	Design      [][]float64 `yaml:"design"`
	Xbar        []float64   `yaml:"xbar"`
	EtaLen      int         `yaml:"eta_len"`
	HasAux      bool        `yaml:"has_aux"`

	CoefPrior      *CoefPriorConfig   `yaml:"coef_prior"`
	InterceptPrior *ScalarPriorConfig `yaml:"intercept_prior"`
	AuxPrior       *ScalarPriorConfig `yaml:"aux_prior"`
}

type GroupConfig struct {
	Levels  int             `yaml:"levels"`
	Len     []int           `yaml:"len"`
	Design  [][][]float64   `yaml:"design"`   // per submodel: etaLen x len rows
	GroupOf [][]int         `yaml:"group_of"` // per submodel: etaLen level indices
	LKJ     *LKJPriorConfig `yaml:"lkj"`
}

type CoefPriorConfig struct {
	Dist        string    `yaml:"dist"`
	Mean        []float64 `yaml:"mean"`
	Scale       []float64 `yaml:"scale"`
	Df          []float64 `yaml:"df"`
	GlobalScale float64   `yaml:"global_scale"`
	GlobalDf    float64   `yaml:"global_df"`
	NumNormals  []int     `yaml:"num_normals"`
}

type ScalarPriorConfig struct {
	Dist  string  `yaml:"dist"`
	Mean  float64 `yaml:"mean"`
	Scale float64 `yaml:"scale"`
	Df    float64 `yaml:"df"`
}

type LKJPriorConfig struct {
	Df             []float64 `yaml:"df"`
	Scale          []float64 `yaml:"scale"`
	Regularization float64   `yaml:"regularization"`
}

type DecovConfig struct {
	Shape          []float64 `yaml:"shape"`
	Scale          []float64 `yaml:"scale"`
	Regularization []float64 `yaml:"regularization"`
	Concentration  []float64 `yaml:"concentration"`
}

//LoadConfig will read and decode a model description file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decoding model file: %w", err)
	}
	return &c, nil
}

var familyNames = map[string]Family{
	"gaussian":         FamGaussian,
	"gamma":            FamGamma,
	"inverse-gaussian": FamInvGaussian,
	"bernoulli":        FamBernoulli,
	"binomial":         FamBinomial,
	"poisson":          FamPoisson,
	"neg-binomial":     FamNegBinomial,
	"poisson-gamma":    FamPoissonGamma,
}

var linkNames = map[string]Link{
	"identity":        LinkIdentity,
	"log":             LinkLog,
	"inverse":         LinkInverse,
	"inverse-squared": LinkInverseSquared,
	"logit":           LinkLogit,
	"probit":          LinkProbit,
	"cloglog":         LinkCloglog,
	"sqrt":            LinkSqrt,
}

var interceptNames = map[string]InterceptType{
	"":              InterceptNone,
	"none":          InterceptNone,
	"unbounded":     InterceptUnbounded,
	"lower-bounded": InterceptLowerBounded,
	"upper-bounded": InterceptUpperBounded,
}

var coefPriorNames = map[string]CoefPriorTag{
	"":               PriorCoefNone,
	"none":           PriorCoefNone,
	"normal":         PriorCoefNormal,
	"student-t":      PriorCoefStudentT,
	"horseshoe":      PriorCoefHS,
	"horseshoe-plus": PriorCoefHSPlus,
	"laplace":        PriorCoefLaplace,
	"lasso":          PriorCoefLasso,
	"product-normal": PriorCoefProductNormal,
}

var scalarPriorNames = map[string]ScalarPriorTag{
	"":            PriorScalarNone,
	"none":        PriorScalarNone,
	"normal":      PriorScalarNormal,
	"student-t":   PriorScalarStudentT,
	"exponential": PriorScalarExponential,
}

func (c *ScalarPriorConfig) build(allowExp bool) (*ScalarPriorSpec, error) {
	if c == nil {
		return &ScalarPriorSpec{Tag: PriorScalarNone}, nil
	}
	tag, ok := scalarPriorNames[c.Dist]
	if !ok {
		return nil, fmt.Errorf("unknown prior %q", c.Dist)
	}
	if tag == PriorScalarExponential && !allowExp {
		return nil, fmt.Errorf("exponential prior is only valid for auxiliary parameters")
	}
	return &ScalarPriorSpec{Tag: tag, Mean: c.Mean, Scale: c.Scale, Df: c.Df}, nil
}

func (c *CoefPriorConfig) build(k int) (*CoefPriorSpec, error) {
	if c == nil {
		return &CoefPriorSpec{Tag: PriorCoefNone}, nil
	}
	tag, ok := coefPriorNames[c.Dist]
	if !ok {
		return nil, fmt.Errorf("unknown coefficient prior %q", c.Dist)
	}
	s := &CoefPriorSpec{
		Tag: tag, Mean: c.Mean, Scale: c.Scale, Df: c.Df,
		GlobalScale: c.GlobalScale, GlobalDf: c.GlobalDf, NumNormals: c.NumNormals,
	}
	switch tag {
	case PriorCoefNormal, PriorCoefStudentT, PriorCoefLaplace, PriorCoefLasso:
		if len(s.Mean) != k || len(s.Scale) != k {
			return nil, fmt.Errorf("coefficient prior wants %d mean/scale entries", k)
		}
	case PriorCoefProductNormal:
		if len(s.NumNormals) != k {
			return nil, fmt.Errorf("product-normal prior wants %d num_normals entries", k)
		}
	}
	return s, nil
}

//Build will validate the configuration and assemble the immutable Model
//the kernel evaluates. Dimension mismatches and out-of-enumeration tags
//are caught here, never inside an evaluation.
func (c *Config) Build() (*Model, error) {
	if len(c.Submodels) == 0 || len(c.Submodels) > 3 {
		return nil, fmt.Errorf("model wants 1 to 3 submodels, got %d", len(c.Submodels))
	}
	if len(c.Groups) > 2 {
		return nil, fmt.Errorf("model wants at most 2 grouping factors, got %d", len(c.Groups))
	}
	mdl := &Model{PriorPredictive: c.PriorPredictive}
	switch c.Covariance {
	case "decov":
		mdl.CovPrior = CovDecov
	case "lkj", "":
		mdl.CovPrior = CovLKJ
	default:
		return nil, fmt.Errorf("unknown covariance strategy %q", c.Covariance)
	}

	for mi, sc := range c.Submodels {
		fam, ok := familyNames[sc.Family]
		if !ok {
			return nil, fmt.Errorf("submodel %d: unknown family %q", mi+1, sc.Family)
		}
		link, ok := linkNames[sc.Link]
		if !ok {
			return nil, fmt.Errorf("submodel %d: unknown link %q", mi+1, sc.Link)
		}
		ict, ok := interceptNames[sc.Intercept]
		if !ok {
			return nil, fmt.Errorf("submodel %d: unknown intercept type %q", mi+1, sc.Intercept)
		}
		sm := &Submodel{
			Family: fam, Link: link, Intercept: ict,
			Trials: sc.Trials, Xbar: sc.Xbar, HasAux: sc.HasAux,
		}
		if (fam.Continuous() || fam == FamNegBinomial) && !sm.HasAux {
			return nil, fmt.Errorf("submodel %d: family %s wants an auxiliary parameter", mi+1, fam)
		}
		if fam.Continuous() {
			if len(sc.OutcomeReal) == 0 {
				return nil, fmt.Errorf("submodel %d: family %s wants a real outcome", mi+1, fam)
			}
			sm.YReal = sc.OutcomeReal
			sm.N = len(sc.OutcomeReal)
		} else {
			if len(sc.OutcomeInt) == 0 {
				return nil, fmt.Errorf("submodel %d: family %s wants an integer outcome", mi+1, fam)
			}
			sm.YInt = sc.OutcomeInt
			sm.N = len(sc.OutcomeInt)
		}
		sm.EtaLen = sc.EtaLen
		if sm.EtaLen == 0 {
			sm.EtaLen = sm.N
		}
		if sm.EtaLen < sm.N {
			return nil, fmt.Errorf("submodel %d: eta length %d below outcome length %d", mi+1, sm.EtaLen, sm.N)
		}
		if len(sc.Design) > 0 {
			sm.K = len(sc.Design[0])
			if len(sc.Design) != sm.EtaLen {
				return nil, fmt.Errorf("submodel %d: design has %d rows, eta length is %d", mi+1, len(sc.Design), sm.EtaLen)
			}
			flat := make([]float64, 0, sm.EtaLen*sm.K)
			for _, row := range sc.Design {
				if len(row) != sm.K {
					return nil, fmt.Errorf("submodel %d: ragged design matrix", mi+1)
				}
				flat = append(flat, row...)
			}
			sm.X = mat.NewDense(sm.EtaLen, sm.K, flat)
			if len(sm.Xbar) == 0 {
				sm.Xbar = make([]float64, sm.K)
			}
			if len(sm.Xbar) != sm.K {
				return nil, fmt.Errorf("submodel %d: xbar wants %d entries", mi+1, sm.K)
			}
		}
		var err error
		if sm.CoefPrior, err = sc.CoefPrior.build(sm.K); err != nil {
			return nil, fmt.Errorf("submodel %d: %w", mi+1, err)
		}
		if sm.InterceptPrior, err = sc.InterceptPrior.build(false); err != nil {
			return nil, fmt.Errorf("submodel %d intercept: %w", mi+1, err)
		}
		if sm.AuxPrior, err = sc.AuxPrior.build(true); err != nil {
			return nil, fmt.Errorf("submodel %d auxiliary: %w", mi+1, err)
		}
		sm.Precompute()
		mdl.Submodels = append(mdl.Submodels, sm)
	}

	for gi, gc := range c.Groups {
		if len(gc.Len) != len(mdl.Submodels) {
			return nil, fmt.Errorf("group %d: len wants one entry per submodel", gi+1)
		}
		g := &GroupFactor{L: gc.Levels, Len: gc.Len}
		for _, n := range gc.Len {
			g.BK += n
		}
		if g.BK == 0 {
			return nil, fmt.Errorf("group %d carries no coefficients", gi+1)
		}
		if len(gc.Design) != len(mdl.Submodels) || len(gc.GroupOf) != len(mdl.Submodels) {
			return nil, fmt.Errorf("group %d: design and group_of want one block per submodel", gi+1)
		}
		for mi, sm := range mdl.Submodels {
			if gc.Len[mi] == 0 {
				continue
			}
			if len(gc.Design[mi]) != sm.EtaLen || len(gc.GroupOf[mi]) != sm.EtaLen {
				return nil, fmt.Errorf("group %d submodel %d: blocks want %d rows", gi+1, mi+1, sm.EtaLen)
			}
			for n, row := range gc.Design[mi] {
				if len(row) != gc.Len[mi] {
					return nil, fmt.Errorf("group %d submodel %d: design row %d wants %d entries", gi+1, mi+1, n, gc.Len[mi])
				}
				if gc.GroupOf[mi][n] < 0 || gc.GroupOf[mi][n] >= gc.Levels {
					return nil, fmt.Errorf("group %d submodel %d: level index out of range at row %d", gi+1, mi+1, n)
				}
			}
		}
		g.Z = gc.Design
		g.GroupOf = gc.GroupOf
		mdl.Groups = append(mdl.Groups, g)

		if mdl.CovPrior == CovLKJ {
			if gc.LKJ == nil || len(gc.LKJ.Df) != g.BK || len(gc.LKJ.Scale) != g.BK {
				return nil, fmt.Errorf("group %d: lkj prior wants df and scale with %d entries", gi+1, g.BK)
			}
			mdl.LKJ = append(mdl.LKJ, &LKJSpec{
				Df: gc.LKJ.Df, Scale: gc.LKJ.Scale, Regularization: gc.LKJ.Regularization,
			})
		}
	}

	if mdl.CovPrior == CovDecov && len(mdl.Groups) > 0 {
		if c.Decov == nil {
			return nil, fmt.Errorf("decov covariance wants a decov hyperparameter block")
		}
		d := mdl.decov()
		if len(c.Decov.Shape) != len(d.P) || len(c.Decov.Scale) != len(d.P) {
			return nil, fmt.Errorf("decov shape and scale want %d entries", len(d.P))
		}
		nreg := 0
		for _, p := range d.P {
			if p > 1 {
				nreg++
			}
		}
		if len(c.Decov.Regularization) != nreg {
			return nil, fmt.Errorf("decov regularization wants %d entries", nreg)
		}
		if len(c.Decov.Concentration) != d.LenZeta {
			return nil, fmt.Errorf("decov concentration wants %d entries", d.LenZeta)
		}
		mdl.Decov = &DecovSpec{
			Shape:          c.Decov.Shape,
			Scale:          c.Decov.Scale,
			Regularization: c.Decov.Regularization,
			Concentration:  c.Decov.Concentration,
		}
	}
	mdl.Init()
	return mdl, nil
}
