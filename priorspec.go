package rstanarm

//ScalarPriorTag enumerates the prior families available for intercepts and
//auxiliary parameters. Exponential applies to auxiliary parameters only.
type ScalarPriorTag int

const (
	PriorScalarNone ScalarPriorTag = iota
	PriorScalarNormal
	PriorScalarStudentT
	PriorScalarExponential
)

//ScalarPriorSpec holds the hyperparameters for an intercept or auxiliary
//prior. Fields not consulted by the tag are left zero and never read.
type ScalarPriorSpec struct {
	Tag   ScalarPriorTag
	Mean  float64
	Scale float64
	Df    float64
}

//CoefPriorTag enumerates the prior families available for fixed-effect
//coefficient vectors.
type CoefPriorTag int

const (
	PriorCoefNone CoefPriorTag = iota
	PriorCoefNormal
	PriorCoefStudentT
	PriorCoefHS
	PriorCoefHSPlus
	PriorCoefLaplace
	PriorCoefLasso
	PriorCoefProductNormal
)

//CoefPriorSpec holds the hyperparameters for one submodel's coefficient
//prior. The vectors are length K; fields not consulted by the tag are left
//zero-filled and never read.
type CoefPriorSpec struct {
	Tag   CoefPriorTag
	Mean  []float64
	Scale []float64
	Df    []float64

	GlobalScale float64 // horseshoe global scale multiplier
	GlobalDf    float64 // horseshoe global df

	//NumNormals gives, per coefficient, how many standard-normal factors a
	//product-normal coefficient multiplies together. Product-normal only.
	NumNormals []int
}

//ZLen will return the primitive vector length the prior expects for k
//coefficients: product-normal consumes one primitive per factor, every
//other tag one per coefficient.
func (s *CoefPriorSpec) ZLen(k int) int {
	if s != nil && s.Tag == PriorCoefProductNormal {
		n := 0
		for _, m := range s.NumNormals {
			n += m
		}
		return n
	}
	return k
}

//ShrinkageParams bundles the latent scale primitives of the shrinkage
//priors: two global scalars and two local vectors for the horseshoe, four
//local vectors for the horseshoe+, a mixing scalar for laplace and lasso,
//and the lasso's one-over-lambda scalar. Only the slots the active tag
//consults are populated.
type ShrinkageParams struct {
	Global []float64
	Local  [][]float64
	Mix    []float64
	OOL    float64
}
