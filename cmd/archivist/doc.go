// Package main hosts the archivist CLI entrypoint and command graph.
//
// The Cobra command tree walks an operator through the archive one item at a
// time (next, publish, draft, skip), reports progress against the ledger, and
// runs the batch exports and the spreadsheet reconciliation. Configuration
// resolution and logger setup live in commandContext so subcommands only
// deal with presentation.
//
// Behaviour belongs in the internal packages; commands here parse flags,
// call into migration, wordpress, or reconcile, and render the result.
package main
