// Package policy is the single authorization table for the scheme client.
//
// # Overview
//
// Every decision about what a role may see, and how its data queries are
// scoped, lives here as a pure function of the user record. Views never
// inline their own role checks; they ask this package. The policy is
// evaluated fresh on every gate decision because a user's role can be
// edited elsewhere mid-session.
//
// # Visibility table
//
//	admin, president: dashboard, farmers, attendance, payments, discipline
//	secretary:        dashboard, farmers, attendance, discipline
//	treasurer:        treasurer dashboard, payments, discipline
//	block_chair:      block chair dashboard, attendance, discipline
//	farmer, unknown:  no protected views
//
// # Query scope
//
// A block_chair's list queries are always restricted to their own block
// and section; every other role queries unscoped and the server decides
// the breadth. QueryScope is consulted by pkg/api and never bypassed.
package policy
