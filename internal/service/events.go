package service

import (
	"encoding/json"
	"time"
)

const (
	SubjectProductCreated = "products.created"
	SubjectProductUpdated = "products.updated"
	SubjectProductDeleted = "products.deleted"

	// SubjectAll matches every product event; the stream is created over it.
	SubjectAll = "products.>"
)

// ProductEvent is published after a product has been created, updated or deleted.
// Product is empty for deletions.
type ProductEvent struct {
	subject string

	Carrier    map[string]string `json:"carrier,omitempty"`
	ProductID  string            `json:"product_id"`
	Product    *ProductDto       `json:"product,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
