// Package preflight provides readiness checks for the filesystem paths and
// the CMS that a migration run depends on.
//
// The CLI "archivist status" command runs RunAll and renders each Result.
// The CMS check is skipped until credentials are configured, so offline
// commands never touch the network.
package preflight
