package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "regexp"
    "strconv"
    "strings"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "shop-backend/internal/repository"
)

func cartContext(method, path, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
    e := echo.New()
    req := httptest.NewRequest(method, path, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("user_id", userID)
    return c, rec
}

const cartUpsertSQL = "INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?,?,?)" +
    " ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)"

func TestCartAddUsesAtomicUpsert(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCartHandler(repository.NewCartRepo(db), repository.NewProductRepo(db), repository.NewImageRepo(db))

    // Two adds for the same (user, product) pair must both run the single
    // upsert statement, never a read-modify-write, so the line collapses
    // to one row with the summed quantity.
    for _, quantity := range []int{2, 3} {
        mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE id=?")).
            WithArgs(9).
            WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
        mock.ExpectExec(regexp.QuoteMeta(cartUpsertSQL)).
            WithArgs(7, 9, quantity).
            WillReturnResult(sqlmock.NewResult(1, 1))

        body := `{"product_id":9,"quantity":` + strconv.Itoa(quantity) + `}`
        c, rec := cartContext(http.MethodPost, "/cart/", body, 7)
        require.NoError(t, h.Add(c))
        assert.Equal(t, http.StatusOK, rec.Code)

        var resp map[string]string
        require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
        assert.Equal(t, "Product added to cart successfully!", resp["message"])
    }
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCartHandler(repository.NewCartRepo(db), repository.NewProductRepo(db), repository.NewImageRepo(db))

    mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE id=?")).
        WithArgs(9).
        WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
    mock.ExpectExec(regexp.QuoteMeta(cartUpsertSQL)).
        WithArgs(7, 9, 1).
        WillReturnResult(sqlmock.NewResult(1, 1))

    c, rec := cartContext(http.MethodPost, "/cart/", `{"product_id":9}`, 7)
    require.NoError(t, h.Add(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAddMissingProduct(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCartHandler(repository.NewCartRepo(db), repository.NewProductRepo(db), repository.NewImageRepo(db))

    mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE id=?")).
        WithArgs(9).
        WillReturnRows(sqlmock.NewRows([]string{"1"}))

    c, rec := cartContext(http.MethodPost, "/cart/", `{"product_id":9}`, 7)
    require.NoError(t, h.Add(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)

    var resp map[string]string
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "Product not found.", resp["error"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartAddRejectsZeroQuantity(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCartHandler(repository.NewCartRepo(db), repository.NewProductRepo(db), repository.NewImageRepo(db))

    c, rec := cartContext(http.MethodPost, "/cart/", `{"product_id":9,"quantity":0}`, 7)
    require.NoError(t, h.Add(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet()) // nothing may touch the store
}
