package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ayopashop/internal/model"
)

func TestCreateBookProduct(t *testing.T) {
	p := CreateBookProduct(1, "Title", 1000, 2020, "Author")

	assert.Equal(t, model.KindBook, p.Kind())
	assert.NotEqual(t, model.KindCloth, p.Kind())
	assert.NotEqual(t, model.KindFood, p.Kind())

	book, ok := p.(model.BookProduct)
	require.True(t, ok)
	assert.Equal(t, 1, book.ID)
	assert.Equal(t, "Title", book.Name)
	assert.Equal(t, 1000, book.Price)
	assert.Equal(t, 2020, book.PublishYear)
	assert.Equal(t, "Author", book.Author)
}

func TestCreateClothProduct(t *testing.T) {
	p := CreateClothProduct(2, "Shirt", 150000, 'L')

	assert.Equal(t, model.KindCloth, p.Kind())

	cloth, ok := p.(model.ClothingProduct)
	require.True(t, ok)
	assert.Equal(t, model.Base{ID: 2, Name: "Shirt", Price: 150000}, cloth.Fields())
	assert.Equal(t, 'L', cloth.Size)
}

func TestCreateFoodProduct(t *testing.T) {
	exp := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	p := CreateFoodProduct(3, "Bread", 20000, exp)

	assert.Equal(t, model.KindFood, p.Kind())

	food, ok := p.(model.FoodProduct)
	require.True(t, ok)
	assert.Equal(t, model.Base{ID: 3, Name: "Bread", Price: 20000}, food.Fields())
	assert.True(t, exp.Equal(food.ExpirationDate))
}

func TestCreate_NoValidation(t *testing.T) {
	// Values outside any sensible range are forwarded untouched.
	p := CreateBookProduct(-1, "", -5, 0, "")

	assert.Equal(t, model.Base{ID: -1, Name: "", Price: -5}, p.Fields())
}
