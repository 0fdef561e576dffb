// Package linkminer provides domain-scoped link discovery for websites.
// Starting from a base URL it collects every same-domain hyperlink reachable
// within a bounded depth, using depth-first or breadth-first traversal under
// sequential, concurrent, or cooperative execution.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/).
package linkminer
