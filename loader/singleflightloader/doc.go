// Package singleflightloader provides an itemservice.Loader that collapses concurrent loads
// into a single upstream call.
//
// Two item lists that derive from the same upstream, such as the sent and received transfers,
// are usually loaded at the same time. Wrapping the upstream with a SingleFlightLoader makes
// them share one request instead of issuing two identical ones.
//
// The SingleFlightLoader can be configured with options:
//   - WithCloner: Allows setting a custom items cloner to use when handing the items to multiple callers
//   - WithBackgroundContextProvider: Sets a custom context provider for the upstream call
package singleflightloader
