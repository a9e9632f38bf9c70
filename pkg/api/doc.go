// Package api is the single choke-point for every call to the remote
// scheme API: it attaches credentials, applies role-derived query
// scoping, classifies failures, and exposes one typed service per
// resource family.
//
// # Overview
//
// The Client wraps http.Client with a uniform timeout and the error
// taxonomy from errors.go. Requests made with no active session fail
// fast as Unauthenticated without touching the network; a 401 response
// clears the session so every consumer observes the logout at once.
// A 403 leaves the session alone: "logged in but disallowed" is a
// different condition from "not logged in".
//
// List calls merge the authorization policy's query scope into the
// request: a block chair's caller-supplied filters compose with, but can
// never override, their block/section restriction.
//
// Mutating calls are never retried. A replayed POST against a
// non-idempotent endpoint could duplicate a payment or a discipline
// case, so retries stay in the caller's hands.
//
// # Services
//
//	Accounts    login, logout, register, profile, user management
//	Farmers     farmer registry CRUD and photo upload
//	Attendance  attendance records, stats, penalty reset
//	Discipline  discipline cases, resolution, stats
//	Payments    payment records, verification, stats
//	RefData     blocks, sections, locations (LRU-cached lookups)
//
// Successful mutations emit typed events on the shared Invalidator so
// view loaders refetch instead of trusting stale lists.
package api
