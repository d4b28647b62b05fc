package entity

// Book is a catalog title. Copies are the loanable instances.
type Book struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Editorial  string `json:"editorial"`
	PubYear    int    `json:"pub_year"`
	Edition    int    `json:"edition"`
	CategoryID int64  `json:"category_id"`
}
