// Package upstream provides the client for the upstream employee-data service.
//
// # Overview
//
// The upstream service exposes a JSON API rooted at a collection URL
// (default http://localhost:8112/api/v1/employee) and wraps every response in
// a {"data": ..., "status": ...} envelope:
//
//   - GET    {base}       list employees
//   - GET    {base}/{id}  get one employee, 404 when absent
//   - POST   {base}       create an employee
//   - DELETE {base}/{id}  delete an employee, 404 when absent
//
// # Retries
//
// Every operation runs through Execute. Each attempt is classified as a
// success, a transient failure (HTTP 429) or a permanent failure. Transient
// failures are retried up to MaxRetries times, waiting RetryDelay * attempt
// between attempts (1s, 2s, 3s with the defaults). The wait only blocks the
// calling goroutine and is abandoned when the context is done.
//
// # Errors
//
// Failures are returned as *Error values wrapping one of ErrRateLimited,
// ErrNotFound, ErrUnavailable, ErrMalformed or ErrUnexpectedStatus.
package upstream
