// Package domain models rooftop rainwater harvesting and PVC moisture
// degradation.
//
// # Rainfall Profile
//
// All computations consume a 12-row monthly rainfall profile (one row per
// calendar month, January through December, order-significant). Rainfall
// depth is in millimeters; the rainy-day count is informational and never
// enters a formula. The profile is structurally fixed at 12 rows
// ([NewRainfallTable] rejects any other shape with [ErrShapeMismatch]) but
// the values themselves are not validated: negative or implausible depths
// propagate into mathematically valid (if physically meaningless) results.
// The tool is an educational estimator, not a safety-critical system.
//
// # Harvest Model
//
// Collected volume per month:
//
//	collected_L = roof_area_m2 · (rainfall_mm / 1000) · efficiency · 1000
//
// The division and multiplication by 1000 cancel algebraically but are kept
// in this order so float results stay reproducible across versions.
// Annual volume is the sum over the 12 months; cubic meters are liters/1000.
//
// # Durability Model
//
// PVC structural integrity is an exponential-decay proxy driven by cumulative
// rainfall exposure, assuming the monthly climatology repeats identically
// every year:
//
//	integrity_% (year y) = 100 · exp(-k · Σ rainfall_m through year y)
//
// k is the moisture-degradation coefficient per meter of cumulative rainfall
// (typical empirical range 0.005–0.10, not enforced). The curve is strictly
// decreasing whenever any month has positive rainfall, and bounded in
// (0, 100]. A non-positive horizon fails with [ErrInvalidHorizon].
//
// # Tank Sizing
//
// Annual volume is classified against a recommended storage band,
// 140 000–280 000 L by default, inclusive at both ends: below / within /
// above.
//
// # Scenarios
//
// A scenario bundles the model inputs into a single request, arriving either
// over HTTP or as a Kafka message. Rainfall resolution order: an explicit
// profile in the request, then a climatology lookup for the request's
// coordinates, then the built-in default profile; the chosen source is
// recorded in the assessment's RainfallSource. Scenario IDs are deterministic
// SHA-256 hashes of the numeric inputs, so re-evaluating the same scenario
// produces the same ID. See [generateScenarioID].
package domain
