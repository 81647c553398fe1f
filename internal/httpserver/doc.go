// Package httpserver wraps http.Server with signal handling and graceful
// shutdown so the API process drains in-flight webhook deliveries instead
// of dropping them on SIGTERM.
package httpserver
