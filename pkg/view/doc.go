// Package view holds interactive graph views.
//
// A [View] owns one visibility controller and one presentation adapter for
// a single graph. Surfaces (the HTTP API, WebSocket sessions, the terminal
// browser) deliver events from different goroutines, so a View serializes
// them with a mutex; the layout engine underneath holds no locks.
//
// # Reloading
//
// [View.Load] analyzes and positions a new graph without holding the lock.
// Every load takes a generation number when it starts. A load whose
// generation is older than the newest started load is discarded when it
// finishes, so a slow payload can never overwrite a faster, newer one.
//
// # Registry
//
// [Registry] indexes live views by id and expires views that have not been
// used for a configurable idle period.
package view
