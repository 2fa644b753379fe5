// Package aggregate computes joined and summarized read-only views. Each view
// is produced by a single SELECT so it reflects one committed snapshot; nothing
// is cached or written back.
package aggregate

import "storefront/internal/repository"

// Aggregator computes cross-entity views over a Conn
type Aggregator struct {
	conn repository.Conn
}

func New(conn repository.Conn) *Aggregator {
	return &Aggregator{conn: conn}
}
