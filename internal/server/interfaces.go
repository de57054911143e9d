package server

// Server defines the lifecycle of the transport servers.
type Server interface {
	// RunServer serves until SIGINT, SIGTERM or SIGQUIT and then shuts
	// every transport down.
	RunServer()

	// Shutdown gracefully stops the servers and runs the registered
	// shutdown hooks.
	Shutdown()

	// OnShutdown registers fn to run before the transports stop, e.g. to
	// close websocket subscribers that http.Server.Shutdown does not track.
	OnShutdown(fn func())
}
