// Package apiclient is the storefront's typed client for the QuickCart API.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quickcart/session"

	"github.com/guonaihong/gout"
)

// Product is a catalog entry as the storefront sees it.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	OfferPrice  float64  `json:"offerPrice"`
	Images      []string `json:"image"`
}

// UserData is the record returned by /api/user/data.
type UserData struct {
	ID        string         `json:"_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      string         `json:"role"`
	CartItems map[string]int `json:"cartItems"`
}

// Error is a failed call that reached the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL. A nil httpClient uses
// one with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func bearer(token string) gout.H {
	return gout.H{"Authorization": "Bearer " + token}
}

// Products fetches GET /api/product/list.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out struct {
		envelope
		Products []Product `json:"products"`
	}
	var code int
	err := gout.New(c.httpClient).GET(c.url("/api/product/list")).
		WithContext(ctx).
		BindJSON(&out).
		Code(&code).
		Do()
	if err := check("list products", err, code, out.envelope); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// UserData fetches GET /api/user/data for the given user ID.
func (c *Client) UserData(ctx context.Context, userID string) (*UserData, error) {
	var out struct {
		envelope
		User UserData `json:"user"`
	}
	var code int
	err := gout.New(c.httpClient).GET(c.url("/api/user/data")).
		WithContext(ctx).
		SetHeader(bearer(userID)).
		BindJSON(&out).
		Code(&code).
		Do()
	if err := check("fetch user data", err, code, out.envelope); err != nil {
		return nil, err
	}
	if out.User.CartItems == nil {
		out.User.CartItems = map[string]int{}
	}
	return &out.User, nil
}

// UpdateCart posts the full cart mapping to POST /api/cart/update.
func (c *Client) UpdateCart(ctx context.Context, userID string, items map[string]int) error {
	var out envelope
	var code int
	err := gout.New(c.httpClient).POST(c.url("/api/cart/update")).
		WithContext(ctx).
		SetHeader(bearer(userID)).
		SetJSON(gout.H{"cartData": items}).
		BindJSON(&out).
		Code(&code).
		Do()
	return check("update cart", err, code, out)
}

// Login signs in with credentials and returns the issued session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var out struct {
		envelope
		session.Session
	}
	var code int
	err := gout.New(c.httpClient).POST(c.url("/api/auth/login")).
		WithContext(ctx).
		SetJSON(gout.H{"email": email, "password": password}).
		BindJSON(&out).
		Code(&code).
		Do()
	if err := check("login", err, code, out.envelope); err != nil {
		return nil, err
	}
	return &out.Session, nil
}

// Session resolves a session token into its normalized session.
func (c *Client) Session(ctx context.Context, token string) (*session.Session, error) {
	var out struct {
		envelope
		session.Session
	}
	var code int
	err := gout.New(c.httpClient).GET(c.url("/api/auth/session")).
		WithContext(ctx).
		SetHeader(bearer(token)).
		BindJSON(&out).
		Code(&code).
		Do()
	if err := check("fetch session", err, code, out.envelope); err != nil {
		return nil, err
	}
	out.Session.Token = token
	return &out.Session, nil
}

func check(op string, err error, code int, env envelope) error {
	if code != 0 && (code < 200 || code >= 300) {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(code)
		}
		return &Error{Status: code, Message: msg}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = op + " failed"
		}
		return &Error{Status: code, Message: msg}
	}
	return nil
}
