// Package inventory holds the warehouse catalogue: materials (product
// definitions) and stock entries (physical quantities at locations).
// Deleting a material cascades to its stock entries.
package inventory
