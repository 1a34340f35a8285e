// Package notionblog provides the content layer for a Notion-backed static
// blog: typed accessors over the workspace's post and friend-link databases,
// a slug index for cross-reference resolution, and a derived-content cache
// for reading-time estimates and generated outlines.
//
// It exposes a single Service interface, constructed with functional options
// around a Source. The canonical Source queries the Notion API (subpackage
// notion); tests supply fakes. Caches are explicit objects owned by the
// build process: hand them to the service via options and clear or discard
// them with the build. All records are read-only snapshots fetched fresh per
// build; nothing here mutates the workspace.
//
// Error Policy
//
// Expected absence (missing property, unknown slug, unpublished record on a
// published-only route) is modeled as typed defaults or sentinel errors.
// Only unexpected remote failure propagates as an error, always wrapped in
// an OperationError naming the failing operation. There is no retry.
package notionblog
