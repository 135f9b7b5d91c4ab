// Package driving defines the interfaces that external actors use to call
// INTO the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI, HTTP API and MCP adapters all consume the same Retriever
// contract, so local in-process stores and the remote thin client are
// indistinguishable to them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
