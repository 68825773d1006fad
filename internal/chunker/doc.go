// Package chunker turns file bytes into a sequence of retrieval chunks.
//
// Three strategies are provided:
//
//   - Structured: first-class support for C#-family syntax. One chunk per
//     method declaration (function_name/class_name/tags=["method"]), or a
//     single file-level chunk when no methods are found.
//   - SQL: splits a file into statements on unquoted, uncommented ';'
//     terminators, tagging each with a classification derived from its
//     leading keyword.
//   - Line: a generic size-bounded line chunker used for every other
//     language, and as the fallback when the structured chunker declines
//     a file.
//
// Target chunk size is ~2000 characters (~3000 for SQL/database content).
// Every chunk emitted here has ComputeID and EstimateTokenCount already
// applied; callers still owe it a LastModified stamp.
package chunker
