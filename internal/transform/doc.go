// Package transform defines the client interface the pipeline uses to apply
// a transform stage, either in-process or over gRPC. Runner stages wrap a
// transform.Client with timeouts, retries, and close lifecycle.
package transform
