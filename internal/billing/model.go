// Package billing turns paid orders into fiscal documents, sends them to the
// Billme invoicing API and keeps an audit record of every attempt.
package billing

import "time"

// Record is one billing attempt. Rows are only ever appended.
type Record struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	Payload     string    `json:"payload"`
	Description string    `json:"description"`
	XMLDocument string    `json:"xmlDocument"`
	CDRResult   string    `json:"cdrResult"`
	XMLResult   string    `json:"xmlResult"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
