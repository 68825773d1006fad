// Package crawler enumerates the files under a project root and turns
// each one into chunks by dispatching to the appropriate chunker.
//
// A factory returns a specialized crawler for the detected project
// archetype; today only SQLDatabase gets a specialized instance (it
// restricts scanning to SQL/database files and always uses the SQL
// chunker). Every other archetype uses the generic crawler, which
// chooses a chunker by file extension.
package crawler
