// Package triage is the business boundary for the fraud complaint triage
// engine. It defines the Engine (pure decision functions over loaded rule
// tables: classification, severity scoring, routing, policy evaluation,
// confidence estimation), the Service (case lifecycle and orchestration),
// the Store interface (persistence), and the domain models.
package triage
