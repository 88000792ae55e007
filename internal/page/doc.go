// Package page holds the state of the breach-database search page: the query
// field, the loading flag and the last search result.
//
// A Page is mounted with the navigational query (the q parameter of the page
// URL). Mounting, and every later change of that parameter, overwrites the
// query field and starts a search when the value is not blank. Explicit
// searches go through the same Search operation:
//
//	Idle -> Validating -> (Rejected | Loading -> (ResultReady | Failed))
//
// Validation rejects blank queries silently, sends visitors without a session
// to the auth page after a short delay, and refuses to search when the
// profile has no credits left. A successful search consumes one credit;
// permission failures of the credit store are logged and otherwise ignored.
//
// Searches may overlap. The most recently dispatched search owns the result
// and the loading flag; earlier ones still settle (and consume credits) but
// do not touch the page state. This deliberately differs from letting the
// last search to settle win, where a slow stale search could clear the
// loading flag of a newer one or replace its result.
package page
