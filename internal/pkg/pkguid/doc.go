// Package pkguid provides helpers for generating unique identifiers.
//
// The codebase uses these interfaces to avoid hard-coding a specific UID
// strategy. Depending on configuration you can generate:
//   - String IDs (for example UUIDs).
//   - Numeric IDs (for example Snowflake-style IDs), adapted to strings via
//     FromNumber.
package pkguid
