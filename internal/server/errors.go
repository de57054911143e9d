package server

import "errors"

// errNoServersAreCreated is returned when neither the HTTP nor the gRPC
// handler is configured, so there is nothing to serve.
var errNoServersAreCreated = errors.New("no servers are created")
