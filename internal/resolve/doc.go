// Package resolve maps imported module names to the distributions that
// provide them and tells whether a name belongs to the standard library.
//
// Resolution runs through ordered tiers: explicit mappings from the
// configuration, the index of installed distribution metadata, and finally
// the module name itself. Every module resolves to at least one provider.
package resolve
