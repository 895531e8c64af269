// Package server provides HTTP routing, middleware and the JSON handlers of the local kedoo API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so a path can carry one handler per
// method and unknown methods are answered with 405.
//
// # API
//
// [APIHandler] exposes the services to browser front-ends and to the moderator. Every route acts for the user
// in the session slot, except moderation and ticket responses which the moderator performs.
//
//	GET    /api/session
//	POST   /api/session                {"email": "...", "password": "..."}
//	DELETE /api/session
//	GET    /api/releases               ?status=&genre=&q=
//	POST   /api/releases
//	GET    /api/releases/stats
//	GET    /api/releases/{id}
//	PATCH  /api/releases/{id}
//	DELETE /api/releases/{id}
//	POST   /api/releases/{id}/submit
//	POST   /api/releases/{id}/moderate {"decision": "approve"|"reject", "reason": "..."}
//	GET    /api/trash
//	DELETE /api/trash
//	POST   /api/trash/{id}/restore
//	DELETE /api/trash/{id}
//	GET    /api/tickets
//	POST   /api/tickets
//	PATCH  /api/tickets/{id}           {"status": "open"|"closed", "response": "..."}
//	GET    /api/wallet
//	POST   /api/wallet/withdraw        {"amount": 1000}
//	GET    /api/themes
//	GET    /api/theme
//	PUT    /api/theme                  {"theme": "ocean"}
//
// Errors are JSON objects {"error": "..."} with a status derived from the sentinel in shared.
//
// # Middleware
//
// [Logging] records method, path, status and duration. [RateLimit] rejects requests beyond a token bucket
// with 429. [Recover] turns handler panics into 500 responses.
package server
