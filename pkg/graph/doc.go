// Package graph defines the CSG command graph of a part document: the
// operation kinds, the reference keys nodes produce and consume, the nodes
// themselves and the ordered document that owns them.
package graph
