package domain

// Book is a catalog entry for a single book.
//
// Books are created lazily the first time a booklist references them and are
// shared across booklists. SelfLink is the external catalog identifier used
// to deduplicate entries; two payloads with the same SelfLink resolve to the
// same document.
type Book struct {
	Record
	Title         string         `json:"title"`
	Subtitle      string         `json:"sub_title,omitempty"`
	Authors       string         `json:"authors"`
	Description   string         `json:"description,omitempty"`
	Categories    string         `json:"categories,omitempty"`
	Publisher     string         `json:"publisher,omitempty"`
	PublishedDate string         `json:"published_date,omitempty"`
	PageCount     string         `json:"page_count,omitempty"`
	Language      string         `json:"language,omitempty"`
	SalePrice     map[string]any `json:"sale_price,omitempty"`
	ImageURL      string         `json:"img_src,omitempty"`
	SelfLink      string         `json:"self_link,omitempty"`
}
