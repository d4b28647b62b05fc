package entity

// Copy is one physical instance of a Book.
// Attention is an opaque hold flag; a copy with Attention set is never
// listed as available for its book.
type Copy struct {
	ID        int64 `json:"id"`
	BookID    int64 `json:"book_id"`
	Available bool  `json:"available"`
	Attention bool  `json:"attention"`
}

// Lendable reports whether the copy shows up in the available-copies lookup.
func (c Copy) Lendable() bool {
	return c.Available && !c.Attention
}
