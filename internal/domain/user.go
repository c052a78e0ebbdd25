package domain

import "time"

// ShippingDetails are the profile fields overwritten wholesale at checkout.
type ShippingDetails struct {
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

// User represents a registered shopper.
type User struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Name         string          `json:"name,omitempty"`
	Shipping     ShippingDetails `json:"shipping"`
	CreatedAt    time.Time       `json:"createdAt"`
}
