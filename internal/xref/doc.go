// Package xref finds the import references in a parsed module.
//
// Static imports, from-imports and dynamic import calls (__import__,
// importlib.import_module) each yield references carrying the imported
// name and the source range of the statement or call. A node without an
// end position leaves its references pending; the next located node in
// pre-order closes them by snapping back from its own start.
package xref
