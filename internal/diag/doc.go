// Package diag defines the diagnostic model shared by the load, scan and sum
// stages.
//
// Diagnostic is the central record: Severity, Code, Message, Primary span and
// optional Notes. Producers emit through a Reporter so they never depend on
// storage; BagReporter collects into a capped Bag, which the driver hands to
// the CLI. Rendering lives in internal/diagfmt.
//
// Keep the data model deterministic: the driver serialises bag summaries into
// the result cache and tests compare them directly.
package diag
