// Package wordpress talks to the WordPress REST API (wp-json/wp/v2) on behalf
// of the migration and reconciliation commands.
//
// Client.CreatePost resolves a category and an author, submits the post, and
// retries once without the author when the CMS answers 403 to an authored
// submission. ListPosts and the category lookups serve the batch exports.
// Every call is bounded by a context deadline; a write that times out wraps
// services.ErrUnknownOutcome because the post may have been created anyway.
package wordpress
