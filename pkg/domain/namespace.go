package domain

import (
	"strings"
	"unicode"
)

const (
	// RegistryCollection holds one document per owner. It contains no '.', so it
	// can never equal a name produced by Resolve.
	RegistryCollection = "catalog_registry"

	// AllGenres is the genre token addressing every collection an owner has.
	AllGenres = "*"

	// NamespaceSeparator joins owner and genre ids into a collection name.
	NamespaceSeparator = "."

	maxCollectionNameBytes = 255
	invalidNameChars       = `\/*?"<>|,#:`
)

// Namespace is a resolved (owner, genre) pair.
type Namespace struct {
	Owner string
	Genre string
}

// NewNamespace lower-cases both parts.
func NewNamespace(ownerID, genreID string) Namespace {
	return Namespace{Owner: strings.ToLower(ownerID), Genre: strings.ToLower(genreID)}
}

// Collection is the physical collection name of the namespace.
func (n Namespace) Collection() string {
	return n.Owner + NamespaceSeparator + n.Genre
}

// Resolve returns the collection name for an owner's genre. Ids differing only
// in letter case resolve to the same name.
func Resolve(ownerID, genreID string) string {
	return NewNamespace(ownerID, genreID).Collection()
}

// IsAllGenres reports whether genre addresses the owner's whole namespace.
func IsAllGenres(genre string) bool {
	return genre == "" || genre == AllGenres
}

// ValidateOwnerID rejects empty ids and the reserved registry name.
func ValidateOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return BadRequest("Owner ID is required")
	}
	if strings.EqualFold(ownerID, RegistryCollection) {
		return BadRequest("Owner ID is reserved: " + ownerID)
	}
	return nil
}

// ValidateGenreName enforces the store's collection naming rules on the genre part.
func ValidateGenreName(genre string) error {
	return validateName("Genre name", genre)
}

// ValidateCollectionName enforces the store's naming rules on a whole resolved
// collection name, so an owner id the rules reject never reaches the store.
func ValidateCollectionName(collection string) error {
	if err := validateName("Collection name", collection); err != nil {
		return err
	}
	if collection != strings.ToLower(collection) {
		return BadRequest("Collection name must be lowercase: " + collection)
	}
	return nil
}

func validateName(label, name string) error {
	switch {
	case name == "":
		return BadRequest(label + " is required")
	case name == "." || name == "..":
		return BadRequest("Invalid " + strings.ToLower(label) + ": " + name)
	case len(name) > maxCollectionNameBytes:
		return BadRequest(label + " is too long")
	case strings.ContainsAny(name[:1], "-_+"):
		return BadRequest(label + " cannot start with '-', '_' or '+'")
	case strings.ContainsAny(name, invalidNameChars):
		return BadRequest(label + " contains invalid characters: " + name)
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return BadRequest(label + " cannot contain whitespace")
	}
	return nil
}
