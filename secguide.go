// Package secguide builds a searchable knowledge base from a documentation
// website. It crawls pages within a single domain, extracts their prose,
// embeds it into fixed-width vectors, stores the result in a vector-indexed
// table, and retrieves de-duplicated nearest neighbours for question answering.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, tei/).
package secguide
