package model

import (
	"fmt"
	"time"
)

// Kind is the variant tag of a product.
type Kind string

const (
	KindCloth Kind = "cloth"
	KindFood  Kind = "food"
	KindBook  Kind = "book"
)

// ParseKind returns the Kind named by s, or an error for unknown tags.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindCloth, KindFood, KindBook:
		return k, nil
	}
	return "", fmt.Errorf("unknown product kind %q", s)
}

// Base holds the fields every product variant carries.
// ID uniqueness is the caller's responsibility.
type Base struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Product is one of ClothingProduct, FoodProduct or BookProduct.
// The set of variants is closed; switch on the concrete type or on Kind.
type Product interface {
	Kind() Kind
	Fields() Base
	isProduct()
}

// ClothingProduct is a garment identified by a single-character size code.
type ClothingProduct struct {
	Base
	Size rune `json:"size"`
}

// FoodProduct is a perishable item.
type FoodProduct struct {
	Base
	ExpirationDate time.Time `json:"expiration_date"`
}

// BookProduct is a published book.
type BookProduct struct {
	Base
	PublishYear int    `json:"publish_year"`
	Author      string `json:"author"`
}

func (ClothingProduct) Kind() Kind { return KindCloth }
func (FoodProduct) Kind() Kind     { return KindFood }
func (BookProduct) Kind() Kind     { return KindBook }

func (p ClothingProduct) Fields() Base { return p.Base }
func (p FoodProduct) Fields() Base     { return p.Base }
func (p BookProduct) Fields() Base     { return p.Base }

func (ClothingProduct) isProduct() {}
func (FoodProduct) isProduct()     {}
func (BookProduct) isProduct()     {}
