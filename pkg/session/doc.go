// Package session owns the persisted identity of the client: the
// access/refresh token pair and the user record, stored as one JSON
// document on disk.
//
// # Overview
//
// The Store is the single source of truth for "who is logged in". It is
// written only by login/logout flows and by the API client's 401 handler,
// and read by everything else. A session is all-or-nothing: the token and
// the user record are persisted as a single record with an atomic
// rename, so a crash can never leave a partial session behind. Anything
// malformed on disk reads back as logged out rather than an error.
//
// In-process consumers observe changes through Subscribe. When several
// processes share one session file, the fsnotify Watcher reloads the
// store whenever another process rewrites the file.
//
// The Store implements oauth2.TokenSource, which is how the API client
// obtains the bearer credential for outbound calls.
package session
