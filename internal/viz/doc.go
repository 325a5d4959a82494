// Package viz renders solver results for the terminal: a styled summary
// table with per-quantity sparklines and a four-panel convergence chart.
package viz
