// Package ui holds the color themes shared by the CLI, the plots and the
// interactive explorer, including one color per density component.
package ui
