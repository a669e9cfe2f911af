// Package services defines shared utilities consumed by the watch pipeline
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp frame sequence numbers, component names, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (fatal configuration vs recoverable detection/delivery)
//     uniform across the pipeline.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// stays consistent between the detection loop, notifiers, and the CLI.
package services
