package server

// Server runs the inbound transport until a stop signal arrives.
type Server interface {
	// RunServer blocks until the server is shut down.
	RunServer()

	// Shutdown stops the server, letting in-flight requests finish.
	Shutdown()
}
