// Package cli implements the schemectl command tree. Each resource
// family gets a subcommand; every data command passes the view gate
// before touching the API, so the CLI enforces the same role table as
// any other client surface.
package cli
