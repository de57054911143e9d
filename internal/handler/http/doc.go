// Package http implements the REST transport of the reference remote store.
//
// Every /api route except the version probe runs behind bearer
// authentication; the token subject scopes all reads and writes to one
// owner. Trace ids, access logging, compression and photo integrity checks
// are handled here before requests reach the service layer.
package http
