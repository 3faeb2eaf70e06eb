package rstanarm

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//DecovLayout records, once per model, where each grouping term's segments
//live inside the flat z_b and theta_L vectors of the decov strategy. The
//theta_L segment of a term with p correlated effects holds p + choose(p,2)
//entries laid out column by column, diagonal entry first and then that
//column's subdiagonals. The z_b segment holds p entries per level. Offsets
//are computed here once rather than re-derived at call sites.
type DecovLayout struct {
	P []int // correlated effects per term
	L []int // levels per term

	zbOff []int
	thOff []int

	LenZB     int
	LenThetaL int
	LenRho    int // correlation primitives: p-1 per term with p > 1
	LenZeta   int // simplex primitives: p per term with p > 1
	LenZT     int // onion row primitives: choose(p,2)-1 per term with p > 1
}

//NewDecovLayout will compute the segment offsets from the term shapes.
func NewDecovLayout(p, l []int) *DecovLayout {
	d := &DecovLayout{
		P:     p,
		L:     l,
		zbOff: make([]int, len(p)),
		thOff: make([]int, len(p)),
	}
	for i := range p {
		d.zbOff[i] = d.LenZB
		d.thOff[i] = d.LenThetaL
		d.LenZB += p[i] * l[i]
		d.LenThetaL += p[i] + p[i]*(p[i]-1)/2
		if p[i] > 1 {
			d.LenRho += p[i] - 1
			d.LenZeta += p[i]
			d.LenZT += p[i]*(p[i]-1)/2 - 1
		}
	}
	return d
}

//ThetaLSeg will return the theta_L segment of term i.
func (d *DecovLayout) ThetaLSeg(thetaL []float64, i int) []float64 {
	n := d.P[i] + d.P[i]*(d.P[i]-1)/2
	return thetaL[d.thOff[i] : d.thOff[i]+n]
}

//ZBSeg will return the z_b segment of term i.
func (d *DecovLayout) ZBSeg(zb []float64, i int) []float64 {
	n := d.P[i] * d.L[i]
	return zb[d.zbOff[i] : d.zbOff[i]+n]
}

//MakeThetaL will build the flat Cholesky-like encoding of the decov
//covariance structure from its primitives: per-term trace magnitudes tau,
//trace-splitting simplices derived from the gamma primitives zeta,
//correlation primitives rho in (0,1), and the onion rows z_T. dispersion
//multiplies every scale, coupling the structure to the residual SD for
//Gaussian models. The output layout is the one DecovLayout documents.
func MakeThetaL(d *DecovLayout, dispersion float64, tau, scale, zeta, rho, zT []float64) []float64 {
	thetaL := make([]float64, d.LenThetaL)
	zetaMark, rhoMark, zTMark, mark := 0, 0, 0, 0
	for i, nc := range d.P {
		if nc == 1 {
			thetaL[mark] = tau[i] * scale[i] * dispersion
			mark++
			continue
		}
		// split the trace of the term's covariance block across the nc
		// effects with a simplex built from the gamma primitives
		traceT := tau[i] * scale[i] * dispersion
		traceT = traceT * traceT * float64(nc)
		pi := make([]float64, nc)
		copy(pi, zeta[zetaMark:zetaMark+nc])
		zetaMark += nc
		floats.Scale(1./floats.Sum(pi), pi)

		T := mat.NewTriDense(nc, mat.Lower, nil)
		sd := math.Sqrt(pi[0] * traceT)
		T.SetTri(0, 0, sd)
		sd = math.Sqrt(pi[1] * traceT)
		t21 := 2.*rho[rhoMark] - 1.
		rhoMark++
		T.SetTri(1, 0, sd*t21)
		T.SetTri(1, 1, sd*math.Sqrt(1.-t21*t21))
		for r := 2; r < nc; r++ { // scaled onion method fills the rest
			row := zT[zTMark : zTMark+r]
			zTMark += r
			sd = math.Sqrt(pi[r] * traceT)
			scaleFactor := math.Sqrt(rho[rhoMark]/floats.Dot(row, row)) * sd
			for c := 0; c < r; c++ {
				T.SetTri(r, c, row[c]*scaleFactor)
			}
			T.SetTri(r, r, math.Sqrt(1.-rho[rhoMark])*sd)
			rhoMark++
		}
		for c := 0; c < nc; c++ {
			thetaL[mark] = T.At(c, c)
			mark++
			for r := c + 1; r < nc; r++ {
				thetaL[mark] = T.At(r, c)
				mark++
			}
		}
	}
	return thetaL
}

//MakeB will expand the flat standard-normal primitives z_b into group-level
//coefficients by walking theta_L term by term: a pure rescaling when the
//term has one effect, a lower-triangular multiply per level otherwise.
func MakeB(zb, thetaL []float64, d *DecovLayout) []float64 {
	b := make([]float64, len(zb))
	bMark, mark := 0, 0
	for i, nc := range d.P {
		if nc == 1 {
			th := thetaL[mark]
			mark++
			for s := 0; s < d.L[i]; s++ {
				b[bMark] = th * zb[bMark]
				bMark++
			}
			continue
		}
		K := mat.NewTriDense(nc, mat.Lower, nil)
		for c := 0; c < nc; c++ {
			K.SetTri(c, c, thetaL[mark])
			mark++
			for r := c + 1; r < nc; r++ {
				K.SetTri(r, c, thetaL[mark])
				mark++
			}
		}
		tmp := make([]float64, nc)
		for j := 0; j < d.L[i]; j++ {
			seg := b[bMark : bMark+nc]
			copy(tmp, zb[bMark:bMark+nc])
			for r := 0; r < nc; r++ {
				s := 0.
				for c := 0; c <= r; c++ {
					s += K.At(r, c) * tmp[c]
				}
				seg[r] = s
			}
			bMark += nc
		}
	}
	return b
}

//GroupCoefs will reshape term i of the flat decov coefficient vector into
//per-level rows, each row ordered by the factor's global coefficient index.
func (d *DecovLayout) GroupCoefs(b []float64, i int) [][]float64 {
	nc := d.P[i]
	rows := make([][]float64, d.L[i])
	off := d.zbOff[i]
	for j := range rows {
		rows[j] = b[off+j*nc : off+(j+1)*nc]
	}
	return rows
}

//MakeBMatLKJ will build the level-by-coefficient matrix of group-level
//coefficients under the lkj strategy: sd*z per level when the factor has a
//single coefficient, otherwise (diag(sd)*Cholesky)*Z transposed so rows
//index levels.
func MakeBMatLKJ(sd []float64, chol *mat.TriDense, z *mat.Dense, levels int) [][]float64 {
	bK := len(sd)
	out := make([][]float64, levels)
	if bK == 1 {
		for j := 0; j < levels; j++ {
			out[j] = []float64{sd[0] * z.At(0, j)}
		}
		return out
	}
	scaled := mat.NewDense(bK, bK, nil)
	for r := 0; r < bK; r++ {
		for c := 0; c <= r; c++ {
			scaled.Set(r, c, sd[r]*chol.At(r, c))
		}
	}
	var prod mat.Dense
	prod.Mul(scaled, z) // bK x levels
	for j := 0; j < levels; j++ {
		row := make([]float64, bK)
		mat.Col(row, j, &prod)
		out[j] = row
	}
	return out
}
