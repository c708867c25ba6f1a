// Package services defines shared utilities consumed by the migration session
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp catalog group keys, operations, and session
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that tag failures so the
//     session can log a consistent operator hint alongside the ledger row.
//
// Use these helpers when wiring new integration code so operational behaviour
// (error handling, observability) stays uniform across commands.
package services
