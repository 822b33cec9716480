// Package pkgerror defines shared error types used across the gateway.
//
// It helps keep error handling consistent by:
//   - Providing a structured Error type that carries a message, type, and code,
//     which can be mapped to HTTP status codes at the edge (handlers).
//   - Separating what the caller sees (the message) from what gets logged
//     (the wrapped error), so upstream faults never leak stack traces.
package pkgerror
