package repository

import (
	"context"
	"testing"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleNames(titles []models.Title) []string {
	names := make([]string, 0, len(titles))
	for _, t := range titles {
		names = append(names, *t.Name)
	}
	return names
}

func TestTitleRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	films := testutil.CreateCategory(t, db, "films")
	books := testutil.CreateCategory(t, db, "books")
	drama := testutil.CreateGenre(t, db, "drama")
	noir := testutil.CreateGenre(t, db, "noir")

	testutil.CreateTitle(t, db, "The Matrix", 1999, films, drama)
	testutil.CreateTitle(t, db, "Fight Club", 1999, films, noir)
	testutil.CreateTitle(t, db, "Dark City", 1998, films, drama, noir)
	testutil.CreateTitle(t, db, "Matrix Reloaded", 2003, books, drama)

	tests := []struct {
		name   string
		filter TitleFilter
		want   []string
	}{
		{"no filter", TitleFilter{}, []string{"The Matrix", "Fight Club", "Dark City", "Matrix Reloaded"}},
		{"year", TitleFilter{Year: 1999}, []string{"The Matrix", "Fight Club"}},
		{"year and genre", TitleFilter{Year: 1999, Genre: "drama"}, []string{"The Matrix"}},
		{"category", TitleFilter{Category: "books"}, []string{"Matrix Reloaded"}},
		{"genre", TitleFilter{Genre: "noir"}, []string{"Fight Club", "Dark City"}},
		{"name is case insensitive", TitleFilter{Name: "MATRIX"}, []string{"The Matrix", "Matrix Reloaded"}},
		{"unknown genre", TitleFilter{Genre: "comedy"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles, total, err := repo.List(ctx, tt.filter, 1, 50)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
			assert.Equal(t, tt.want, titleNames(titles))
		})
	}
}

func TestTitleRepository_ListPaginates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTitleRepository(db)

	for _, name := range []string{"a", "b", "c"} {
		testutil.CreateTitle(t, db, name, 2000, nil)
	}

	titles, total, err := repo.List(context.Background(), TitleFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"c"}, titleNames(titles))
}

func TestTitleRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	films := testutil.CreateCategory(t, db, "films")
	drama := testutil.CreateGenre(t, db, "drama")
	noir := testutil.CreateGenre(t, db, "noir")

	rating := 9.5
	title := &models.Title{Name: testutil.Ptr("Chinatown"), Year: 1974, CategoryID: &films.ID, Rating: &rating}
	require.NoError(t, repo.Create(ctx, title, []int64{drama.ID, noir.ID, drama.ID}))
	require.NotZero(t, title.ID)

	found, err := repo.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Rating, "rating is never client supplied")
	require.NotNil(t, found.Category)
	assert.Equal(t, "films", found.Category.Slug)
	require.Len(t, found.Genres, 2)
	assert.Equal(t, "drama", found.Genres[0].Slug)
	assert.Equal(t, "noir", found.Genres[1].Slug)
}

func TestTitleRepository_UpdateReplacesGenres(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	drama := testutil.CreateGenre(t, db, "drama")
	noir := testutil.CreateGenre(t, db, "noir")
	title := testutil.CreateTitle(t, db, "Heat", 1995, nil, drama)

	title.Name = testutil.Ptr("Heat (1995)")
	require.NoError(t, repo.Update(ctx, title, []int64{noir.ID}, true))

	found, err := repo.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Ptr("Heat (1995)"), found.Name)
	require.Len(t, found.Genres, 1)
	assert.Equal(t, "noir", found.Genres[0].Slug)

	// genres untouched when not replaced
	found.Year = 1996
	require.NoError(t, repo.Update(ctx, found, nil, false))
	again, err := repo.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Equal(t, 1996, again.Year)
	assert.Len(t, again.Genres, 1)
}

func TestTitleRepository_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 404), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Title{ID: 404, Name: testutil.Ptr("x"), Year: 2000}, nil, false), ErrNotFound)
}

func TestTitleRepository_CategoryDeleteNullsTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	titles := NewTitleRepository(db)
	categories := NewCategoryRepo(db)
	ctx := context.Background()

	films := testutil.CreateCategory(t, db, "films")
	title := testutil.CreateTitle(t, db, "Alien", 1979, films)

	require.NoError(t, categories.DeleteBySlug(ctx, "films"))

	found, err := titles.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, found.CategoryID)
	assert.Nil(t, found.Category)
}

func TestTitleRepository_GenreDeleteUnlinksTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	titles := NewTitleRepository(db)
	genres := NewGenreRepo(db)
	ctx := context.Background()

	drama := testutil.CreateGenre(t, db, "drama")
	title := testutil.CreateTitle(t, db, "Alien", 1979, nil, drama)

	require.NoError(t, genres.DeleteBySlug(ctx, "drama"))

	found, err := titles.FindByID(ctx, title.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Genres)
}

func TestTitleRepository_NameFilterMatchesWildcardsLiterally(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTitleRepository(db)
	ctx := context.Background()

	testutil.CreateTitle(t, db, "snake_case", 2001, nil)
	testutil.CreateTitle(t, db, "Snakes", 2002, nil)
	testutil.CreateTitle(t, db, "100% Wolf", 2020, nil)
	testutil.CreateTitle(t, db, `C:\Films`, 2003, nil)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"underscore", "_", []string{"snake_case"}},
		{"percent", "%", []string{"100% Wolf"}},
		{"backslash", `\`, []string{`C:\Films`}},
		{"plain substring", "snake", []string{"snake_case", "Snakes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := repo.List(ctx, TitleFilter{Name: tt.search}, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
			assert.Equal(t, tt.want, titleNames(list))
		})
	}
}
