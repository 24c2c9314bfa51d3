package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		err    *Error
		msg    string
		status int
	}{
		{ServerUnavailable(), "Database server is offline", http.StatusServiceUnavailable},
		{OwnerNotFound("alice"), "Cannot find user with ID: alice", http.StatusNotFound},
		{GenreNotFound("horror"), "Cannot find genre: horror", http.StatusNotFound},
		{ItemNotFound("b1"), "Cannot find book with ID: b1", http.StatusNotFound},
		{GenreAlreadyExists("scifi"), "Genre already exists: scifi", http.StatusConflict},
		{BadRequest(""), "Bad data given", http.StatusBadRequest},
		{BadRequest("Only JSON is accepted"), "Only JSON is accepted", http.StatusBadRequest},
		{Unknown(0), "Unknown error has occurred", http.StatusInternalServerError},
		{Unknown(http.StatusForbidden), "Unknown error has occurred", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.Equal(t, tt.status, tt.err.StatusCode())
			assert.Equal(t, tt.status, StatusOf(tt.err))
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("lookup: %w", GenreNotFound("scifi"))

	assert.True(t, errors.Is(err, ErrGenreNotFound))
	assert.False(t, errors.Is(err, ErrOwnerNotFound))
	assert.Equal(t, KindGenreNotFound, KindOf(err))
}

func TestError_ForeignErrors(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}
