// Package plan defines subscription tiers and the pure entitlement policy
// mapping a tier to its content features and upload limits.
//
// Feature sets are strictly increasing with tier (free ⊂ pro ⊂ ultra); the
// retry coordinator relies on that monotonicity when computing missing
// features. The policy has no side effects and no failure modes.
package plan
