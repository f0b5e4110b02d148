// Package boxes is the legacy box model: named boxes holding free-text item
// labels, searchable case-insensitively and exchanged as two-column CSV.
//
// CSV interchange format:
//
//	Box,Item
//	Fruit,Apples
//	Fruit,Blueberries
//	Nuts,Almonds
//
// One row per (box, item) pair. On read, rows are grouped by the first
// column; box order and item order follow first appearance, so a write
// followed by a read reproduces the same boxes.
//
// FromLedger bridges the relational store into this format by placing each
// item in an "Unboxed" or "Boxed" box according to its current location.
package boxes
