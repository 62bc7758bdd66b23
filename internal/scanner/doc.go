// Package scanner implements the periodic job that drains targeted
// repository scan requests.
package scanner
