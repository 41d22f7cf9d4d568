package order

import "strings"

// Address is the delivery address of an order.
type Address struct {
	Number   string `json:"number" yaml:"number"`
	Street   string `json:"street" yaml:"street"`
	City     string `json:"city" yaml:"city"`
	Region   string `json:"region" yaml:"region"`
	PostCode string `json:"postCode" yaml:"postCode"`
}

// String formats the address as "number street, city, region, postcode".
func (a Address) String() string {
	var sb strings.Builder
	sb.Grow(len(a.Number) + len(a.Street) + len(a.City) + len(a.Region) + len(a.PostCode) + 7)
	sb.WriteString(a.Number)
	sb.WriteByte(' ')
	sb.WriteString(a.Street)
	sb.WriteString(", ")
	sb.WriteString(a.City)
	sb.WriteString(", ")
	sb.WriteString(a.Region)
	sb.WriteString(", ")
	sb.WriteString(a.PostCode)
	return sb.String()
}

// Order is the decoded, caller-owned form of a record.
type Order struct {
	ID         int64   `json:"id"`
	User       []byte  `json:"user"`
	ArticleNr  int32   `json:"articleNr"`
	Count      int32   `json:"count"`
	PricePence int32   `json:"pricePence"`
	Address    Address `json:"address"`
}
