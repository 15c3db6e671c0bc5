// Package view derives the ordered set of scans visible under a view mode
// and drives circular navigation over that set.
package view
