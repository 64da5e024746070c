// Package controller implements the user-facing operations of the
// PhishGuard client.
//
// Each operation calls the server through an API, renders the outcome with a
// render.Renderer and commits it into its own view.View region. Server and
// transport failures are always rendered before the operation returns; the
// returned error is for the caller's information only (exit codes, logs).
// Validation failures never reach the network.
package controller
