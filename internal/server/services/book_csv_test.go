package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookService_Export(t *testing.T) {
	repo := newFakeBooksRepo(
		models.Book{ID: 1, Title: "Dune", Author: "Frank Herbert", Publisher: "Ace", Genre: "SF", Price: 9.99, Availability: 3, ImageKey: "books/k.png"},
		models.Book{ID: 2, Title: "Emma, a novel", Author: "Jane Austen", Price: 5, ImageURL: "http://img/emma.jpg"},
	)
	s := newBookService(t, repo, newFakeCovers())

	out, err := s.Export(context.Background())
	require.NoError(t, err)

	want := "id,title,author,publisher,genre,price,availability,imageUrl\n" +
		"1,Dune,Frank Herbert,Ace,SF,9.99,3,/books/1/cover\n" +
		"2,\"Emma, a novel\",Jane Austen,,,5,0,http://img/emma.jpg\n"
	assert.Equal(t, want, string(out))
}

func TestBookService_Import(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := newFakeBooksRepo()
	s := NewBookService(db, &fakeRepoManager{b: repo}, newFakeCovers(), logging.Nop())

	csv := "\ufeffTitle,Author,Price,availability,imageUrl,extra\n" +
		"Dune,Frank Herbert,9.99,3,http://img/dune.jpg,x\n" +
		"Emma,Jane Austen,,,/books/9/cover,y\n"

	n, err := s.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := repo.All(context.Background())
	require.Len(t, all, 2)
	assert.Equal(t, "Dune", all[0].Title)
	assert.Equal(t, 9.99, all[0].Price)
	assert.Equal(t, 3, all[0].Availability)
	assert.Equal(t, "http://img/dune.jpg", all[0].ImageURL)
	assert.Empty(t, all[1].ImageURL, "relative cover links cannot be imported")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookService_ImportRollsBackOnRepoError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := newFakeBooksRepo()
	repo.createErr = errBoom{}
	s := NewBookService(db, &fakeRepoManager{b: repo}, newFakeCovers(), logging.Nop())

	_, err := s.Import(context.Background(), strings.NewReader("title,author\nDune,Herbert\n"))
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookService_ImportRejects(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{"empty", "", "csv is empty"},
		{"header only", "title,author\n", "csv has no rows"},
		{"missing author column", "title,price\nDune,1\n", `lacks "author"`},
		{"bad price", "title,author,price\nDune,Herbert,cheap\n", "line 2: price"},
		{"bad availability", "title,author,availability\nDune,Herbert,1\nEmma,Austen,2.5\n", "line 3: availability"},
		{"row fails validation", "title,author\nDune,\n", "line 2"},
		{"broken quoting", "title,author\n\"Dune,Herbert\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newBookService(t, newFakeBooksRepo(), newFakeCovers())

			_, err := s.Import(context.Background(), strings.NewReader(tt.csv))
			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
