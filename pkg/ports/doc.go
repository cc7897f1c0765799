/*
Package ports defines the driven ports (interfaces) for the Lectern engine.

These interfaces decouple the navigation core from external implementations, allowing
it to work with various deck sources, presentation surfaces and storage backends.

# Key Interfaces

  - SlideSource: Live slide counts and fragment lists queried by the navigator.
  - Surface / LocationPublisher: Where frames and location strings go.
  - DeckLoader: Produces a Deck (e.g., from Loam or Memory).
  - StateStore: Persists the location Record of a session.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - SessionHost: The multi-session surface used by transport adapters (HTTP, MCP).
*/
package ports
