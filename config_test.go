package rstanarm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const gaussianYAML = `
covariance: lkj
submodels:
  - family: gaussian
    link: identity
    intercept: unbounded
    outcome_real: [1.2, -0.3, 2.5]
    design:
      - [1.0, 0.5]
      - [-1.0, 2.0]
      - [0.3, 0.3]
    xbar: [0.1, 0.93]
    has_aux: true
    coef_prior:
      dist: normal
      mean: [0, 0]
      scale: [2.5, 2.5]
    intercept_prior:
      dist: normal
      mean: 0
      scale: 10
    aux_prior:
      dist: exponential
      scale: 1
`

func TestConfigBuildsGaussianModel(t *testing.T) {
	var c Config
	require.NoError(t, yaml.Unmarshal([]byte(gaussianYAML), &c))
	mdl, err := c.Build()
	require.NoError(t, err)
	require.Len(t, mdl.Submodels, 1)
	sm := mdl.Submodels[0]
	require.Equal(t, FamGaussian, sm.Family)
	require.Equal(t, LinkIdentity, sm.Link)
	require.Equal(t, InterceptUnbounded, sm.Intercept)
	require.Equal(t, 2, sm.K)
	require.Equal(t, 3, sm.EtaLen)
	require.Equal(t, PriorCoefNormal, sm.CoefPrior.Tag)

	// intercept + 2 coefficients + aux
	require.Equal(t, 4, mdl.Layout().Total)
	lp, err := mdl.LogPosteriorVec([]float64{0.1, 0.2, -0.3, 0.9})
	require.NoError(t, err)
	require.NotZero(t, lp)
}

func TestConfigRejectsUnknownTags(t *testing.T) {
	bad := func(mutate func(*Config)) error {
		var c Config
		require.NoError(t, yaml.Unmarshal([]byte(gaussianYAML), &c))
		mutate(&c)
		_, err := c.Build()
		return err
	}
	require.Error(t, bad(func(c *Config) { c.Submodels[0].Family = "weibull" }))
	require.Error(t, bad(func(c *Config) { c.Submodels[0].Link = "quadratic" }))
	require.Error(t, bad(func(c *Config) { c.Submodels[0].Intercept = "sideways" }))
	require.Error(t, bad(func(c *Config) { c.Submodels[0].CoefPrior.Dist = "cauchy" }))
	require.Error(t, bad(func(c *Config) { c.Covariance = "wishart" }))
	require.Error(t, bad(func(c *Config) { c.Submodels[0].InterceptPrior.Dist = "exponential" }))
	// families whose likelihood consumes the auxiliary must carry one
	require.Error(t, bad(func(c *Config) { c.Submodels[0].HasAux = false }))
}

func TestConfigRejectsDimensionMismatches(t *testing.T) {
	bad := func(mutate func(*Config)) error {
		var c Config
		require.NoError(t, yaml.Unmarshal([]byte(gaussianYAML), &c))
		mutate(&c)
		_, err := c.Build()
		return err
	}
	require.Error(t, bad(func(c *Config) { c.Submodels[0].Design = c.Submodels[0].Design[:2] }))
	require.Error(t, bad(func(c *Config) { c.Submodels[0].Xbar = []float64{1} }))
	require.Error(t, bad(func(c *Config) { c.Submodels[0].CoefPrior.Mean = []float64{0} }))
	require.Error(t, bad(func(c *Config) { c.Submodels[0].OutcomeReal = nil }))
	require.Error(t, bad(func(c *Config) { c.Submodels = nil }))
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(gaussianYAML), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	mdl, err := c.Build()
	require.NoError(t, err)
	require.Equal(t, 4, mdl.Layout().Total)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

const sharedGroupYAML = `
covariance: decov
submodels:
  - family: gaussian
    link: identity
    intercept: unbounded
    outcome_real: [1.0, 2.0]
    has_aux: true
    aux_prior: {dist: exponential, scale: 1}
  - family: poisson
    link: log
    intercept: unbounded
    outcome_int: [3, 0, 4]
groups:
  - levels: 2
    len: [1, 1]
    design:
      - [[1.0], [1.0]]
      - [[1.0], [1.0], [1.0]]
    group_of:
      - [0, 1]
      - [0, 1, 1]
decov:
  shape: [1]
  scale: [1]
  regularization: [1]
  concentration: [1, 1]
`

func TestConfigBuildsSharedGroupDecovModel(t *testing.T) {
	var c Config
	require.NoError(t, yaml.Unmarshal([]byte(sharedGroupYAML), &c))
	mdl, err := c.Build()
	require.NoError(t, err)
	require.Equal(t, CovDecov, mdl.CovPrior)
	require.Equal(t, 2, mdl.Groups[0].BK)
	require.Equal(t, 1, mdl.Groups[0].KShift(1))

	lay := mdl.Layout()
	// gamma+aux, gamma, then zb(4)+rho(1)+zeta(2)+tau(1)
	require.Equal(t, 11, lay.Total)
	theta := []float64{0.2, 0.8, -0.1, 0.3, -0.2, 0.1, 0.4, 0.5, 0.7, 0.9, 1.1}
	lp, err := mdl.LogPosteriorVec(theta)
	require.NoError(t, err)
	require.NotZero(t, lp)
}
