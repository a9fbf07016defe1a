package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Thin typed wrappers over the authenticated endpoints. These bodies are
// opaque to the session core - only the fields the CLI renders are declared,
// everything else is the backend's business.

// Purchase is a vehicle purchase record.
type Purchase struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Dealership    string  `json:"dealership"`
	VIN           string  `json:"vin"`
	VehicleYear   int     `json:"vehicleYear"`
	VehicleMake   string  `json:"vehicleMake"`
	VehicleModel  string  `json:"vehicleModel"`
	Miles         int     `json:"miles"`
	PurchasePrice float64 `json:"purchasePrice"`
}

// User is a backend user account.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// Dealership is a dealership record.
type Dealership struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// CommissionRule is a commission rule record.
type CommissionRule struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// PremiumRule is a premium rule record.
type PremiumRule struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// MyPurchases lists the purchases visible to the signed-in user.
func (c *Client) MyPurchases(ctx context.Context) ([]Purchase, error) {
	var out []Purchase
	if err := c.Do(ctx, http.MethodGet, "/api/purchases/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPurchase fetches one purchase by ID.
func (c *Client) GetPurchase(ctx context.Context, id string) (*Purchase, error) {
	var out Purchase
	if err := c.Do(ctx, http.MethodGet, "/api/purchases/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers lists user accounts. Admin-only on the backend.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.Do(ctx, http.MethodGet, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDealerships lists dealerships.
func (c *Client) ListDealerships(ctx context.Context) ([]Dealership, error) {
	var out []Dealership
	if err := c.Do(ctx, http.MethodGet, "/api/dealerships", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCommissionRules lists commission rules.
func (c *Client) ListCommissionRules(ctx context.Context) ([]CommissionRule, error) {
	var out []CommissionRule
	if err := c.Do(ctx, http.MethodGet, "/api/commission-rules", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPremiumRules lists premium rules.
func (c *Client) ListPremiumRules(ctx context.Context) ([]PremiumRule, error) {
	var out []PremiumRule
	if err := c.Do(ctx, http.MethodGet, "/api/premium-rules", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadFile fetches a stored document's raw bytes.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	res, err := c.send(ctx, http.MethodGet, fmt.Sprintf("/api/files/%s", fileID), nil, nil, true)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}
