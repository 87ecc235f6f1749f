// Package events decouples the services that request background work
// from the task machinery that performs it. Services emit
// TaskRequestEvent values through an EventEmitter; handlers registered
// on the emitter turn them into runnable tasks.
package events
