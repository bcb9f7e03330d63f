// Package reports renders the material catalogue and stock entries as
// downloadable CSV and PDF documents.
package reports
