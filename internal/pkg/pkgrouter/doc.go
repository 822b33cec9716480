// Package pkgrouter wraps HTTP routing and common middleware used by the gateway.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, error mapping, logging, recovery, bearer-token
// authentication, and correlation ID propagation.
package pkgrouter
