// Package sitecontent provides the content engine of a corporate marketing
// site: admin-curated press articles and partner testimonials, with pluggable
// repository and blob storage backends.
//
// It exposes a single Service interface that orchestrates the content
// lifecycle (draft/published transitions with consistent publish timestamps),
// testimonial display ordering via adjacent rank swaps, paginated and filtered
// listings, media asset storage, and contact form intake. Implementations of
// repositories (memory, Postgres) and blob stores (memory, filesystem, S3) are
// provided under subpackages.
//
// # Publish State
//
// A record's PublishedDate records the first time it was ever published and is
// never cleared by moving the record back to draft. The Published flag alone
// decides public visibility; the two fields together satisfy the invariant
// published implies non-nil PublishedDate after every save or toggle.
package sitecontent
