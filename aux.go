package rstanarm

//MakeAux will map an unscaled positive auxiliary primitive onto its working
//scale. Tag none is the identity; otherwise the primitive is multiplied by
//the prior scale, and shifted by the prior mean for the location families.
func MakeAux(unscaled float64, spec *ScalarPriorSpec) float64 {
	if spec == nil || spec.Tag == PriorScalarNone {
		return unscaled
	}
	aux := spec.Scale * unscaled
	if spec.Tag == PriorScalarNormal || spec.Tag == PriorScalarStudentT {
		aux += spec.Mean
	}
	return aux
}

//FoldAuxMax will fold the scaled auxiliary values of all active submodels
//into the running maximum consumed as the shrinkage-prior scale cap. The
//fold starts at 1 whether or not any auxiliary parameter exists, so the
//result never drops below 1 within an evaluation.
func FoldAuxMax(aux []float64) float64 {
	m := 1.0
	for _, a := range aux {
		if a > m {
			m = a
		}
	}
	return m
}
