// Package service contains the application's business logic, sitting
// between the HTTP handlers and the storage layer. Services own
// transaction boundaries and emit events for background work instead of
// invoking it directly.
package service
