// Package catalog builds product records so callers never pick a variant
// constructor themselves.
package catalog

import (
	"time"

	"ayopashop/internal/model"
)

// CreateClothProduct returns a clothing product with the given size code.
func CreateClothProduct(id int, name string, price int, size rune) model.Product {
	return model.ClothingProduct{
		Base: model.Base{ID: id, Name: name, Price: price},
		Size: size,
	}
}

// CreateFoodProduct returns a food product expiring on expirationDate.
func CreateFoodProduct(id int, name string, price int, expirationDate time.Time) model.Product {
	return model.FoodProduct{
		Base:           model.Base{ID: id, Name: name, Price: price},
		ExpirationDate: expirationDate,
	}
}

// CreateBookProduct returns a book product.
func CreateBookProduct(id int, name string, price int, publishYear int, author string) model.Product {
	return model.BookProduct{
		Base:        model.Base{ID: id, Name: name, Price: price},
		PublishYear: publishYear,
		Author:      author,
	}
}
