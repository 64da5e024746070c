// Package api is a typed client for the PhishGuard server endpoints.
//
// Paths come from a config.Routes value, so the same client talks to either
// endpoint set the server has shipped with. Every failure is returned as
// *Error with a Kind saying whether the request never completed, the server
// answered with a failure, or the body could not be decoded.
package api
