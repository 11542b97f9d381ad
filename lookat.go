// Package lookat aggregates articles from RSS and Atom feeds grouped into
// categories and keeps a deduplicated article store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, mongo/, gofeed/).
package lookat
