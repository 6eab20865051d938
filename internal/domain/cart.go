package domain

// CartItem is one cart line. Its identity is the tuple
// (Product.ID, SelectedColor.Name, SelectedSize.Value).
type CartItem struct {
	Product       Product      `json:"product"`
	SelectedColor ProductColor `json:"selectedColor"`
	SelectedSize  ProductSize  `json:"selectedSize"`
	Quantity      int          `json:"quantity"`
}

// Matches reports whether the line identity equals the given tuple.
func (i CartItem) Matches(productID, colorName, sizeValue string) bool {
	return i.Product.ID == productID &&
		i.SelectedColor.Name == colorName &&
		i.SelectedSize.Value == sizeValue
}
