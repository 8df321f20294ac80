package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "regexp"
    "strings"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "shop-backend/internal/config"
    "shop-backend/internal/repository"
)

// checkoutContext builds an authenticated JSON request context for the
// checkout handler.
func checkoutContext(body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/checkout/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("user_id", userID)
    return c, rec
}

const validAddressJSON = `"full_name":"Alice Example","phone":"5550100",` +
    `"address":"1 Main St","city":"Springfield","state":"IL","pincode":"62704"`

func TestAddressPayloadValidate(t *testing.T) {
    full := addressPayload{
        FullName: "Alice Example",
        Phone:    "5550100",
        Address:  "1 Main St",
        City:     "Springfield",
        State:    "IL",
        Pincode:  "62704",
    }
    require.NoError(t, full.validate())

    cases := []struct {
        field string
        mut   func(*addressPayload)
    }{
        {"full_name", func(a *addressPayload) { a.FullName = "" }},
        {"phone", func(a *addressPayload) { a.Phone = "" }},
        {"address", func(a *addressPayload) { a.Address = "" }},
        {"city", func(a *addressPayload) { a.City = "" }},
        {"state", func(a *addressPayload) { a.State = "" }},
        {"pincode", func(a *addressPayload) { a.Pincode = "" }},
    }
    for _, tc := range cases {
        t.Run(tc.field, func(t *testing.T) {
            a := full
            tc.mut(&a)
            err := a.validate()
            require.Error(t, err)
            assert.Contains(t, err.Error(), tc.field)
        })
    }
}

func TestCartTotal(t *testing.T) {
    assert.Zero(t, cartTotal(nil))

    lines := []repository.CartLine{
        {ProductID: 1, Quantity: 2, UnitPrice: 9.99},
        {ProductID: 2, Quantity: 1, UnitPrice: 100},
    }
    assert.InDelta(t, 119.98, cartTotal(lines), 1e-9)
}

func TestCheckoutInvalidType(t *testing.T) {
    e := echo.New()
    body := `{"checkout_type":"subscription"}`
    req := httptest.NewRequest(http.MethodPost, "/checkout/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("user_id", uint64(1))

    h := &CheckoutHandler{} // the type switch rejects before any repo call
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    var resp map[string]string
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "Invalid checkout type!", resp["error"])
}

func TestCheckoutUnauthenticated(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/checkout/", strings.NewReader(`{}`))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := &CheckoutHandler{}
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartCheckoutPlacesOrderAndClearsCart(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCheckoutHandler(config.Config{},
        repository.NewOrderRepo(db), repository.NewCartRepo(db), repository.NewProductRepo(db))

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items c")).
        WithArgs(7).
        WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "price"}).
            AddRow(1, 2, 9.99).
            AddRow(2, 1, 100.0))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO addresses")).
        WithArgs(7, "Alice Example", "5550100", "1 Main St", "Springfield", "IL", "62704").
        WillReturnResult(sqlmock.NewResult(5, 1))
    // Total must equal the sum of in-transaction unit prices x quantities.
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
        WithArgs(7, 5, 119.98).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
        WithArgs(11, 1, 2, 9.99, 11, 2, 1, 100.0).
        WillReturnResult(sqlmock.NewResult(1, 2))
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id=?")).
        WithArgs(7).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectCommit()

    c, rec := checkoutContext(`{"checkout_type":"cart",`+validAddressJSON+`}`, 7)
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusCreated, rec.Code)

    var resp map[string]interface{}
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "Cart Order placed successfully!", resp["message"])
    assert.Equal(t, float64(11), resp["order_id"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartCheckoutEmptyCart(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCheckoutHandler(config.Config{},
        repository.NewOrderRepo(db), repository.NewCartRepo(db), repository.NewProductRepo(db))

    // An immediately repeated checkout sees the cart already consumed:
    // nothing beyond the line read may touch the store.
    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items c")).
        WithArgs(7).
        WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "price"}))
    mock.ExpectRollback()

    c, rec := checkoutContext(`{"checkout_type":"cart",`+validAddressJSON+`}`, 7)
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    var resp map[string]string
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "Your cart is empty!", resp["error"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuyNowPlacesOrderWithQuantityTotal(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCheckoutHandler(config.Config{},
        repository.NewOrderRepo(db), repository.NewCartRepo(db), repository.NewProductRepo(db))

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM products")).
        WithArgs(9).
        WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(25.5))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO addresses")).
        WithArgs(7, "Alice Example", "5550100", "1 Main St", "Springfield", "IL", "62704").
        WillReturnResult(sqlmock.NewResult(3, 1))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
        WithArgs(7, 3, 76.5). // 25.5 x 3
        WillReturnResult(sqlmock.NewResult(21, 1))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_items")).
        WithArgs(21, 9, 3, 25.5).
        WillReturnResult(sqlmock.NewResult(1, 1))
    mock.ExpectCommit()

    body := `{"checkout_type":"buy_now","products":[{"product_id":9,"quantity":3}],` + validAddressJSON + `}`
    c, rec := checkoutContext(body, 7)
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusCreated, rec.Code)

    var resp map[string]interface{}
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "Buy Now Order placed successfully!", resp["message"])
    assert.Equal(t, float64(21), resp["order_id"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuyNowMissingProductRollsBack(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    h := NewCheckoutHandler(config.Config{},
        repository.NewOrderRepo(db), repository.NewCartRepo(db), repository.NewProductRepo(db))

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM products")).
        WithArgs(9).
        WillReturnRows(sqlmock.NewRows([]string{"price"}))
    mock.ExpectRollback()

    body := `{"checkout_type":"buy_now","products":[{"product_id":9}],` + validAddressJSON + `}`
    c, rec := checkoutContext(body, 7)
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    var resp map[string]string
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "Product not found!", resp["error"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuyNowRequiresProduct(t *testing.T) {
    e := echo.New()
    body := `{"checkout_type":"buy_now","products":[]}`
    req := httptest.NewRequest(http.MethodPost, "/checkout/", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("user_id", uint64(1))

    h := &CheckoutHandler{}
    require.NoError(t, h.Checkout(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    var resp map[string]string
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "No product provided for Buy Now!", resp["error"])
}
