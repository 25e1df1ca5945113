package models

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusDelivered = "delivered"
)

// OrderCustomer captures the buyer-supplied contact details for an order.
type OrderCustomer struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

// Order defines the persisted order document. Once submitted it is owned by
// the order service; the only mutation the backend performs afterwards is
// the administrative status update.
type Order struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	Items           []CartItem    `bson:"items" json:"items"`
	Total           float64       `bson:"total" json:"total"`
	Customer        OrderCustomer `bson:"customer" json:"customer"`
	PaymentMethod   string        `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentProofURL string        `bson:"payment_proof_url" json:"payment_proof_url"`
	Status          string        `bson:"status" json:"status"`
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
}
