// Package detector classifies a repository root into a project archetype
// by checking for a fixed set of marker files and directories.
//
// Detection always collects every matching archetype before deciding: if
// more than one archetype matches, a fixed priority order is applied
// (WebForms > DotNetCore > Angular > React), otherwise the result is
// Mixed. No match yields Unknown. An I/O error while probing a marker is
// logged, never returned to the caller, and that marker counts as absent;
// the other markers still decide the result, so an I/O error does not by
// itself yield Unknown.
package detector
