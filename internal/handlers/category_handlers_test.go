package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendormart/vendormart-api/internal/models"
)

func TestGetCategoriesBuildsThreeLevelTree(t *testing.T) {
	h, mock := newTestHandlers(t)

	// Ordered by name, so the sub-subcategory "Android" arrives before
	// its parent "Phones" and the grandchild "Zips" after everything.
	mock.ExpectQuery(`SELECT id, name, slug, parent_id FROM categories ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "parent_id"}).
			AddRow(3, "Android", "android", 2).
			AddRow(1, "Electronics", "electronics", nil).
			AddRow(2, "Phones", "phones", 1).
			AddRow(4, "Zips", "zips", 2))

	c, w := testContext("GET", "/", nil)
	h.GetCategories(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Categories, 1)
	root := resp.Categories[0]
	assert.Equal(t, "Electronics", root.Name)
	require.Len(t, root.Children, 1)
	phones := root.Children[0]
	assert.Equal(t, "Phones", phones.Name)
	require.Len(t, phones.Children, 2)
	assert.Equal(t, "Android", phones.Children[0].Name)
	assert.Equal(t, "Zips", phones.Children[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategoriesOrphanParentBecomesRoot(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery(`FROM categories`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "parent_id"}).
			AddRow(5, "Stranded", "stranded", 77))

	c, w := testContext("GET", "/", nil)
	h.GetCategories(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "Stranded", resp.Categories[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategorySlugifiesName(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectExec(`INSERT INTO categories \(name, slug, parent_id\) VALUES \(\?, \?, \?\)`).
		WithArgs("Home & Garden", "home-and-garden", nil).
		WillReturnResult(sqlmock.NewResult(12, 1))

	c, w := jsonContext("POST", "/", `{"name": "Home & Garden"}`)
	h.CreateCategory(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"home-and-garden"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRequiredDocsReplacesSet(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery(`SELECT 1 FROM categories WHERE id = \?`).
		WithArgs("4").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM category_document WHERE category_id = \?`).
		WithArgs("4").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO category_document`).
		WithArgs("4", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO category_document`).
		WithArgs("4", int64(3)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	c, w := jsonContext("PUT", "/", `{"documentIds": [1, 3]}`)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	h.SetRequiredDocs(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRequiredDocsUnknownCategory(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery(`SELECT 1 FROM categories WHERE id = \?`).
		WithArgs("99").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	c, w := jsonContext("PUT", "/", `{"documentIds": [1]}`)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	h.SetRequiredDocs(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
