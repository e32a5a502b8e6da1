// Package navsync keeps one navigation bar per application in sync with the
// window location.
//
// The bar observes every history push and replace, from the router or any
// other code, plus popstate, and re-derives its active link one loop tick
// later. A Provider owns the bar: Get creates it on first use and Close
// removes the observers and unmounts it, so the bar can be torn down and
// recreated.
package navsync
