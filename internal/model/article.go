package model

// Article is a persisted article. Author references a User identity.
type Article struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Author int64  `json:"author"`
}

// NewArticle is the creation variant of Article.
type NewArticle struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Author int64  `json:"author"`
}

// Validate rejects author ids that can never reference a user.
func (a NewArticle) Validate() error {
	if a.Author <= 0 {
		return ErrInvalidAuthor
	}
	return nil
}
