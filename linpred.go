package rstanarm

import (
	"gonum.org/v1/gonum/floats"
)

//LinearPredictor will assemble the linear predictor of submodel m: the
//fixed-effect product, then the intercept under its centering policy, then
//the contribution of each grouping factor this submodel owns coefficients
//in. b holds one level-by-coefficient matrix per grouping factor, rows
//indexing levels and columns the factor's global coefficient order.
func (mdl *Model) LinearPredictor(m int, gamma float64, beta []float64, b [][][]float64) []float64 {
	sm := mdl.Submodels[m]
	eta := make([]float64, sm.EtaLen)
	if sm.K > 0 {
		for n := 0; n < sm.EtaLen; n++ {
			eta[n] = floats.Dot(sm.X.RawRowView(n), beta)
		}
	}
	//The bounded policies center on the extrema of the fixed-effect term
	//alone, so after the shift the intercept bounds the predictor exactly.
	switch sm.Intercept {
	case InterceptUnbounded:
		for n := range eta {
			eta[n] += gamma
		}
	case InterceptLowerBounded:
		shift := floats.Max(eta)
		for n := range eta {
			eta[n] += gamma - shift
		}
	case InterceptUpperBounded:
		shift := floats.Min(eta)
		for n := range eta {
			eta[n] += gamma - shift
		}
	}
	for fi, g := range mdl.Groups {
		nk := g.Len[m]
		if nk == 0 {
			continue
		}
		shift := g.KShift(m)
		rows := g.Z[m]
		grp := g.GroupOf[m]
		coefs := b[fi]
		for n := 0; n < sm.EtaLen; n++ {
			c := coefs[grp[n]]
			for j := 0; j < nk; j++ {
				//the factor's design rows are stored with submodel-local
				//columns, so the partition offset moves only the
				//coefficient index
				eta[n] += c[shift+j] * rows[n][j]
			}
		}
	}
	return eta
}
