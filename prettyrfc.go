// Package prettyrfc serves RFC documents as readable, cross-referenced HTML.
// It resolves loosely formatted identifiers to canonical documents, fetches
// their source from the RFC archive, caches it on disk, renders it, and
// indexes it for full-text search.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, etree/, gin/).
package prettyrfc
