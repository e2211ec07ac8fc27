// Package plot turns a solution into a log-log diagram of scale factor
// against time: the integrated curve, one dashed guide per density
// component and one marker per equality epoch. The same Figure is rendered
// as PNG with go-chart, as an interactive matplotlib window through pyplot,
// and as text by the CLI and the TUI.
package plot
