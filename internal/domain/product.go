package domain

import "time"

type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand"`
	Description   string         `json:"description,omitempty"`
	Category      string         `json:"category"`
	LotNumber     string         `json:"lotNumber,omitempty"`
	Price         int64          `json:"price"`
	OriginalPrice *int64         `json:"originalPrice,omitempty"`
	Stock         int            `json:"stock"`
	Rating        float64        `json:"rating"`
	Reviews       int            `json:"reviews"`
	IsNew         bool           `json:"isNew,omitempty"`
	IsFeatured    bool           `json:"isFeatured,omitempty"`
	Images        []string       `json:"images"`
	Colors        []ProductColor `json:"colors"`
	Sizes         []ProductSize  `json:"sizes"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// ProductColor is a color variant. Image, when set, overrides the product
// images for that variant.
type ProductColor struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Image string `json:"image,omitempty"`
}

type ProductSize struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	InStock bool   `json:"inStock"`
}

// ColorByName returns the color variant with the given name.
func (p Product) ColorByName(name string) (ProductColor, bool) {
	for _, c := range p.Colors {
		if c.Name == name {
			return c, true
		}
	}
	return ProductColor{}, false
}

// SizeByValue returns the size variant with the given value.
func (p Product) SizeByValue(value string) (ProductSize, bool) {
	for _, s := range p.Sizes {
		if s.Value == value {
			return s, true
		}
	}
	return ProductSize{}, false
}
