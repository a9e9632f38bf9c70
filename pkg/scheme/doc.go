// Package scheme defines the domain model of the Limphasa rice scheme:
// users and their roles, farmers with their plot allocations, attendance
// records, discipline cases, payments, and the block/section/location
// reference hierarchy used for scoping.
//
// # Overview
//
// Types in this package mirror the JSON shapes served by the scheme API
// (snake_case fields). The package is a leaf: it has no dependencies on
// the client, session, or policy layers, so every other package can share
// these types freely.
//
// Derived figures such as a farmer's outstanding balance are computed
// client-side from fetched lists (see aggregates.go) and are never cached;
// they must be recomputed whenever the underlying list changes.
//
// # Related Packages
//
//   - pkg/policy: maps a Role to visible views and query scope
//   - pkg/api: fetches and mutates these types against the remote API
package scheme
