// Package client contains the tripshare API client used by the CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     login, users, plans, allocations, holidays, settings and the
//     stale-plan list.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor, applies a
//     per-call timeout and maps gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Failures surface as the shared sentinels in internal/common, matched with
// errors.Is: ErrConnectivity, ErrAuthentication, ErrValidation and
// ErrConflict. Rejections that carry more detail (forbidden, not found)
// wrap both ErrConflict and the specific sentinel.
//
// # Concurrency & Contexts
//
// GRPCClient is safe for concurrent use; the workspace issues its dashboard
// loads in parallel. All operations accept context.Context and honor
// cancellation.
package client
