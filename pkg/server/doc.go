// Package server exposes interactive graph views over HTTP.
//
// A client posts a graph payload (or a GitHub repository reference) and
// receives a view id together with the positioned scene. Subsequent events
// (toggle, click, expand_all, collapse_all, reset) are posted to the view
// and answered with the updated scene, plus the detail panel for clicks.
// The same events can be streamed over a WebSocket at /ws/views/{id}.
//
// # Routes
//
//	GET    /healthz
//	POST   /api/views                     payload -> {view_id, scene, issues}
//	POST   /api/views/github              {owner, repo, ref}
//	GET    /api/views/{id}
//	PUT    /api/views/{id}/graph          replace the graph
//	POST   /api/views/{id}/events         {kind, node_id}
//	GET    /api/views/{id}/nodes/{nodeID} detail panel
//	GET    /api/views/{id}/dot
//	GET    /api/views/{id}/svg
//	DELETE /api/views/{id}
//	GET    /ws/views/{id}
//
// Errors are rendered as {"code": ..., "error": ...} with a status code
// derived from the error code.
package server
