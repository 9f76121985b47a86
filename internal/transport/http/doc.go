// Package http exposes the latest analysis report over HTTP.
//
// Handlers are thin: they read the report or trigger a run through the
// services layer, render JSON with go-chi/render, and turn every error into
// an RFC 7807 problem through errors.ErrorHandler.
//
// Routes mounted under /api:
//
//	GET  /health, /health/ready, /health/live
//	GET  /version
//	GET  /report
//	GET  /report/{section}   clean, vigilance, habits, avoidance, ttest
//	POST /report/refresh
//	GET  /plots/{name}.png   vigilance, avoidance
package http
