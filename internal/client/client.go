// Package client talks to the store-rating API and tracks the login session
// the way the browser page does, with an explicit SessionStore instead of
// localStorage.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"store-rating/internal/domain"
)

// DefaultRating is submitted when the user has not picked a value.
const DefaultRating = 5

type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string { return fmt.Sprintf("%d %s", e.Status, e.Msg) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type Client struct {
	http    *resty.Client
	store   SessionStore
	session Session
}

// New reads the persisted session once; from then on the Client holds it.
func New(baseURL string, store SessionStore) (*Client, error) {
	s, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !s.LoggedIn() {
		s = Session{}
	}
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("Content-Type", "application/json")
	return &Client{http: hc, store: store, session: s}, nil
}

func (c *Client) Session() Session { return c.session }

// Screen resolves want against the current session.
func (c *Client) Screen(want Screen) Screen { return Resolve(c.session.Role, want) }

func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	req := c.http.R().SetContext(ctx)
	if c.session.Token != "" {
		// sent bare, the server accepts both forms
		req.SetHeader("Authorization", c.session.Token)
	}
	if body != nil {
		req.SetBody(body)
	}
	res, err := req.Execute(method, path)
	if err != nil {
		return "", err
	}
	var env envelope
	if err := json.Unmarshal(res.Body(), &env); err != nil {
		if res.IsError() {
			return "", &APIError{Status: res.StatusCode(), Msg: res.Status()}
		}
		return "", fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if res.IsError() {
		return "", &APIError{Status: res.StatusCode(), Msg: env.Msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return env.Msg, nil
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// Signup registers an account. It does not log in.
func (c *Client) Signup(ctx context.Context, in SignupRequest) (uint64, error) {
	var out struct {
		ID uint64 `json:"id"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// Login stores the token and role in the SessionStore.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", body, &s); err != nil {
		return Session{}, err
	}
	if err := c.store.Save(s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	c.session = s
	return s, nil
}

// Logout forgets the local session; tokens are not revoked server side.
func (c *Client) Logout() error {
	c.session = Session{}
	return c.store.Clear()
}

func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	_, err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &st)
	return st, err
}

func (c *Client) Stores(ctx context.Context) ([]domain.StoreWithRating, error) {
	var list []domain.StoreWithRating
	_, err := c.do(ctx, http.MethodGet, "/stores", nil, &list)
	return list, err
}

type StoreRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// CreateStore adds a store and returns the re-fetched list.
func (c *Client) CreateStore(ctx context.Context, in StoreRequest) ([]domain.StoreWithRating, error) {
	if _, err := c.do(ctx, http.MethodPost, "/stores", in, nil); err != nil {
		return nil, err
	}
	return c.Stores(ctx)
}

// Rate submits value for storeID, DefaultRating when value is 0, and returns
// the re-fetched list so the new average is visible.
func (c *Client) Rate(ctx context.Context, storeID uint64, value int) ([]domain.StoreWithRating, error) {
	if value == 0 {
		value = DefaultRating
	}
	body := map[string]any{"storeId": storeID, "rating": value}
	if _, err := c.do(ctx, http.MethodPost, "/ratings", body, nil); err != nil {
		return nil, err
	}
	return c.Stores(ctx)
}

type AdminView struct {
	Stats  domain.Stats
	Stores []domain.StoreWithRating
}

func (c *Client) AdminDashboard(ctx context.Context) (AdminView, error) {
	st, err := c.Stats(ctx)
	if err != nil {
		return AdminView{}, err
	}
	stores, err := c.Stores(ctx)
	if err != nil {
		return AdminView{}, err
	}
	return AdminView{Stats: st, Stores: stores}, nil
}

type UserView struct {
	Stores []domain.StoreWithRating
}

func (c *Client) UserDashboard(ctx context.Context) (UserView, error) {
	stores, err := c.Stores(ctx)
	if err != nil {
		return UserView{}, err
	}
	return UserView{Stores: stores}, nil
}
