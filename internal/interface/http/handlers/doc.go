// Package handlers contains the health checking used by the /health and
// /ready endpoints.
//
// Checks are registered by name and run in parallel, each under its own
// timeout. A failing critical check makes the service unhealthy and not
// ready; a failing optional check only marks it degraded:
//
//	checker := handlers.NewCompositeHealthChecker("0.1.0")
//	checker.AddCheck("database", handlers.NewPingCheck(store), true)
//	checker.AddCheck("cache", handlers.NewPingCheck(redisClient), false)
//
//	status := checker.Check(ctx)
package handlers
