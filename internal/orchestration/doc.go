// Package orchestration runs one or several model solves concurrently and
// hands the results to a presenter. It decouples integration from display
// via the ProgressReporter and ResultPresenter interfaces.
package orchestration
