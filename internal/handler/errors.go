package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server config
// enables neither the HTTP API nor the gRPC health listener.
var errNoHandlersAreCreated = errors.New("no handlers are created")
