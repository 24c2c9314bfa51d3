package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "alice.scifi", Resolve("alice", "scifi"))
	assert.Equal(t, "alice.*", Resolve("alice", AllGenres))
	assert.Equal(t, Resolve("alice", "scifi"), Resolve("ALICE", "SciFi"))
	assert.NotContains(t, RegistryCollection, NamespaceSeparator)
}

func TestIsAllGenres(t *testing.T) {
	assert.True(t, IsAllGenres(""))
	assert.True(t, IsAllGenres("*"))
	assert.False(t, IsAllGenres("scifi"))
}

func TestValidateOwnerID(t *testing.T) {
	assert.NoError(t, ValidateOwnerID("alice"))
	assert.ErrorIs(t, ValidateOwnerID(""), ErrBadRequest)
	assert.ErrorIs(t, ValidateOwnerID("   "), ErrBadRequest)
	assert.ErrorIs(t, ValidateOwnerID("Catalog_Registry"), ErrBadRequest)
}

func TestValidateGenreName(t *testing.T) {
	valid := []string{"scifi", "non-fiction", "kids_books", "2024"}
	for _, g := range valid {
		assert.NoError(t, ValidateGenreName(g), g)
	}

	invalid := []string{"", ".", "..", "-a", "_a", "+a", "a/b", "a*", "a?b", "a,b", "a#b", "a:b", "sci fi", strings.Repeat("a", 256)}
	for _, g := range invalid {
		assert.ErrorIs(t, ValidateGenreName(g), ErrBadRequest, g)
	}
}

func TestValidateCollectionName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"alice.scifi", true},
		{"0b0f8a9e-1c2d-4e5f-8a9b-0c1d2e3f4a5b.scifi", true},
		{"_xy9kq.scifi", false},
		{"-abc.scifi", false},
		{"+abc.scifi", false},
		{"Alice.scifi", false},
		{"a b.scifi", false},
		{strings.Repeat("a", 250) + ".scifi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCollectionName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrBadRequest)
			}
		})
	}
}

func TestBook_DocumentOnlySetFields(t *testing.T) {
	title := "Dune"
	pages := 412
	doc := Book{Title: &title, PageCount: &pages}.Document()

	assert.Equal(t, Document{"title": "Dune", "page_count": 412}, doc)
}

func TestValidateBook(t *testing.T) {
	tests := []struct {
		name  string
		doc   Document
		field string
	}{
		{"known fields", Document{"title": "Dune", "page_count": 412, "genre": []string{"scifi"}}, ""},
		{"extra fields pass", Document{"title": "Dune", "shelf": "B2", "rating": 4.5}, ""},
		{"null is unset", Document{"page_count": nil}, ""},
		{"string page count", Document{"page_count": "412"}, "page_count"},
		{"fractional page count", Document{"page_count": 41.2}, "page_count"},
		{"numeric title", Document{"title": 7}, "title"},
		{"genre not a list", Document{"genre": "scifi"}, "genre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBook(tt.doc)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrBadRequest)
			assert.EqualError(t, err, "Invalid value for field: "+tt.field)
		})
	}
}
