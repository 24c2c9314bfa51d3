package domain

import (
	"encoding/json"
	"errors"
)

// Document is a schema-less store document
type Document map[string]interface{}

// Owner is a tenant record in the registry collection
type Owner struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// Book is the optional schema of a catalog item. Only fields that are set are
// sent to the store, so a Book doubles as a partial update. Documents may carry
// fields beyond these; the ones listed here must have the listed types.
type Book struct {
	Title         *string  `json:"title,omitempty"`
	Author        *string  `json:"author,omitempty"`
	Publisher     *string  `json:"publisher,omitempty"`
	ISBN          *string  `json:"isbn,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	Language      *string  `json:"language,omitempty"`
	PublishedDate *string  `json:"published_date,omitempty"`
	Genre         []string `json:"genre,omitempty"`
}

// Document converts the set fields of b into a store document.
func (b Book) Document() Document {
	doc := Document{}
	if b.Title != nil {
		doc["title"] = *b.Title
	}
	if b.Author != nil {
		doc["author"] = *b.Author
	}
	if b.Publisher != nil {
		doc["publisher"] = *b.Publisher
	}
	if b.ISBN != nil {
		doc["isbn"] = *b.ISBN
	}
	if b.PageCount != nil {
		doc["page_count"] = *b.PageCount
	}
	if b.Language != nil {
		doc["language"] = *b.Language
	}
	if b.PublishedDate != nil {
		doc["published_date"] = *b.PublishedDate
	}
	if b.Genre != nil {
		doc["genre"] = b.Genre
	}
	return doc
}

// ValidateBook checks the known fields of doc against the Book schema. Unknown
// fields pass through untouched.
func ValidateBook(doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return BadRequest("Invalid JSON")
	}
	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return BadRequest("Invalid value for field: " + typeErr.Field)
		}
		return BadRequest("Invalid JSON")
	}
	return nil
}

// PublishedDateFormat is the store date format of Book.PublishedDate
const PublishedDateFormat = "dd-MM-yyyy"

// FailureRecord describes one item of a bulk write that the store rejected.
// Position is the 0-based index into the submitted batch.
type FailureRecord struct {
	Position int    `json:"document_number"`
	Reason   string `json:"error"`
	Status   int    `json:"status"`
}

// GenreStats is the listing view of one genre collection
type GenreStats struct {
	Genre        string `json:"genre"`
	Collection   string `json:"index"`
	BooksCount   string `json:"books_count"`
	BooksDeleted string `json:"books_deleted"`
	PrimarySize  string `json:"primary_size"`
}

// Hit is one raw search hit as returned by the store
type Hit struct {
	ID     string          `json:"_id"`
	Index  string          `json:"_index,omitempty"`
	Source json.RawMessage `json:"_source"`
}
