// Package corr3 implements the dual-tree triangle traversal kernel for
// three-point correlation functions over weighted point catalogs.
//
// Given up to three fields of points, each carrying a position and a
// count, scalar, or spin-2 shear weight, corr3 enumerates triangles drawn
// from their pre-built spatial trees, prunes branches that cannot land in
// any output bin, and accumulates the surviving triangles into a binning
// grid parameterized by (d2, u, v).
//
// Basic usage:
//
//	cfg := corr3.DefaultConfig()
//	cfg.MinSep, cfg.MaxSep, cfg.NBins = 1, 100, 20
//	c, err := corr3.NewCorr3(cfg)
//	err = c.ProcessAuto(ctx, field, corr3.ProcessOptions{MetricKind: corr3.Euclidean})
//	// c.Result() holds ntri, weight, mean-separation sums, and zeta.
//
// corr3 does not build spatial trees or read catalogs: a [Field] is a
// forest of caller-supplied [Cell] roots, built and owned by the caller.
//
// # Metric selection
//
// ProcessOptions.MetricKind picks the point-space geometry:
//
//	corr3.Euclidean  // flat 2D/3D
//	corr3.Arc        // great-circle distance on the unit sphere
//	corr3.Periodic   // flat 2D/3D wrapped at Config.Period
//
// Not every metric is valid for every point space; NewMetric (and so
// every Process* call) returns an error for invalid combinations.
package corr3
