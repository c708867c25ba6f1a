// Package textutil provides the small string transforms shared by the CMS
// client, the reconciler, and the report writers: slug derivation, case
// folding, and bounded error snippets.
package textutil
