package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ShippingInfo is the address snapshot captured during checkout.
// FullName, Address and City are required for progression.
type ShippingInfo struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// OrderItem is a denormalized cart line frozen at submission time.
type OrderItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Color       string `json:"color"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

type Order struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	Items           []OrderItem  `json:"items"`
	TotalAmount     int64        `json:"totalAmount"`
	Status          OrderStatus  `json:"status"`
	ShippingAddress ShippingInfo `json:"shippingAddress"`
	PhoneNumber     string       `json:"phoneNumber"`
	PhoneVerified   bool         `json:"phoneVerified"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}
