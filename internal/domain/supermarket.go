package domain

import "fmt"

// SupermarketType identifies a supported retailer. Values match the
// seeded supermarkets table.
type SupermarketType int

const (
	SupermarketWoolworths SupermarketType = 1
)

var supermarketNames = map[SupermarketType]string{
	SupermarketWoolworths: "Woolworths",
}

// KnownSupermarkets returns every supported retailer in id order.
func KnownSupermarkets() []SupermarketType {
	return []SupermarketType{SupermarketWoolworths}
}

// Valid reports whether t names a supported retailer.
func (t SupermarketType) Valid() bool {
	_, ok := supermarketNames[t]
	return ok
}

func (t SupermarketType) String() string {
	if n, ok := supermarketNames[t]; ok {
		return n
	}
	return fmt.Sprintf("SupermarketType(%d)", int(t))
}

// SeedSupermarkets returns the rows the supermarkets table is seeded with.
func SeedSupermarkets() []Supermarket {
	out := make([]Supermarket, 0, len(supermarketNames))
	for _, t := range KnownSupermarkets() {
		out = append(out, Supermarket{ID: int(t), Name: t.String()})
	}
	return out
}
