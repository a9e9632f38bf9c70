// Package viewdata assembles the data a view needs before it renders.
//
// Loads that feed one view fetch their parts concurrently and fail as a
// unit, so a view never renders half its data. Dependent fetches, such
// as the sections list that follows a block selection, go through a
// DependentLoader that discards responses arriving for a superseded
// selection. Cancelling the context is how a caller abandons a load; an
// abandoned load never publishes a result.
package viewdata
