// Package handlers implements the HTTP API of the loopbridge status server.
//
// Handlers validate nothing beyond the route: they delegate to a Session,
// which runs the operation on the cooperative loop, and map its errors to
// HTTP status codes.
//
// # API Endpoints
//
//	┌────────┬────────────┬──────────────────────────────────────────────┐
//	│ Method │ Endpoint   │ Description                                  │
//	├────────┼────────────┼──────────────────────────────────────────────┤
//	│ GET    │ /status    │ Workers, pollers, consumers and the label    │
//	│ POST   │ /clicks    │ One click: "hello" enqueued for the consumer │
//	│ POST   │ /producers │ Start a producer feeding the label           │
//	│ POST   │ /blocking  │ Start a fire-and-forget blocking call        │
//	└────────┴────────────┴──────────────────────────────────────────────┘
//
// # Error Mapping
//
//	┌──────────────────────────────┬─────────────────────────────┐
//	│ Error                        │ Status                      │
//	├──────────────────────────────┼─────────────────────────────┤
//	│ services.ErrProducerRunning  │ 409 Conflict                │
//	│ LoopTerminatedError          │ 503 Service Unavailable     │
//	│ QueueFullError               │ 429 Too Many Requests       │
//	│ context canceled / deadline  │ 504 Gateway Timeout         │
//	│ anything else                │ 500 Internal Server Error   │
//	└──────────────────────────────┴─────────────────────────────┘
package handlers
