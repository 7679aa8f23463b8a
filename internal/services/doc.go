// Package services implements the [Catalog] client for the music API.
//
// # Degradation
//
// Every catalog operation tries the API first. Any transport error, non-2xx status or undecodable body is logged
// as a warning and replaced with a fixed mock payload, so callers always receive data. Only context cancellation
// is returned as an error.
//
// # Transport
//
// [APIService] performs raw requests against the configured base URL. It applies the configured timeout, retries
// 5xx responses and timeouts with a fixed delay, and attaches the session's bearer token through an
// [oauth2.Transport] when one is available.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : non-2xx response
//   - [shared.ErrServiceUnavailable] : retries exhausted
package services
