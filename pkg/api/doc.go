// Package api defines the wire messages of the splitvault.v1 services.
//
// Messages travel as JSON. Amounts are decimal strings in the asset's base
// units, split identifiers are 0x-prefixed hex strings, and timestamps are
// Unix seconds.
package api
