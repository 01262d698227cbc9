// Package ping contains handlers for pinging the server
package ping

import "net/http"

// HandlePing is a trivial liveness probe.
func HandlePing(w http.ResponseWriter, r *http.Request) {}
