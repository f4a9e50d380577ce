package models

import (
	"fmt"
	"strings"
)

// Exterior is the wear grade of a non-vanilla skin. Values are the short
// codes stored in the database enum.
type Exterior string

const (
	FactoryNew    Exterior = "FN"
	MinimalWear   Exterior = "MW"
	FieldTested   Exterior = "FT"
	WellWorn      Exterior = "WW"
	BattleScarred Exterior = "BS"
)

// Exteriors lists every grade, best to worst.
var Exteriors = []Exterior{FactoryNew, MinimalWear, FieldTested, WellWorn, BattleScarred}

var exteriorNames = map[Exterior]string{
	FactoryNew:    "Factory New",
	MinimalWear:   "Minimal Wear",
	FieldTested:   "Field-Tested",
	WellWorn:      "Well-Worn",
	BattleScarred: "Battle-Scarred",
}

// ParseExterior accepts either the short code ("FT") or the display name
// ("Field-Tested") as printed on the catalog page.
func ParseExterior(s string) (Exterior, bool) {
	for _, e := range Exteriors {
		if s == string(e) || s == exteriorNames[e] {
			return e, true
		}
	}
	return "", false
}

// String returns the display name.
func (e Exterior) String() string {
	if name, ok := exteriorNames[e]; ok {
		return name
	}
	return string(e)
}

// Listing is one catalog item as persisted in the item table.
// Kind and Exterior are both nil for vanilla items.
type Listing struct {
	OrderID    int       `db:"order_id"`
	Name       string    `db:"name"`
	Kind       *string   `db:"kind"`
	Exterior   *Exterior `db:"exterior"`
	Price      int       `db:"price"`
	HasSold    bool      `db:"has_sold"`
	IsStatTrak bool      `db:"is_stattrak"`
}

// String is the short display identity used in notifications.
func (l *Listing) String() string {
	if l.Kind == nil {
		return l.Name + " | Vanilla"
	}
	return l.Name + " | " + *l.Kind
}

// FullName includes the StatTrak prefix and the exterior.
func (l *Listing) FullName() string {
	var b strings.Builder
	if l.IsStatTrak {
		b.WriteString("StatTrak ")
	}
	b.WriteString(l.String())
	if l.Exterior != nil {
		fmt.Fprintf(&b, " (%s)", l.Exterior)
	}
	return b.String()
}

// SameAs reports whether every column of l equals the one in o.
func (l *Listing) SameAs(o *Listing) bool {
	return l.OrderID == o.OrderID &&
		l.Name == o.Name &&
		equalPtr(l.Kind, o.Kind) &&
		equalPtr(l.Exterior, o.Exterior) &&
		l.Price == o.Price &&
		l.HasSold == o.HasSold &&
		l.IsStatTrak == o.IsStatTrak
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ParsedSection is one marker-delimited block of the catalog page.
// Listing is nil when the block only says the item has been sold.
type ParsedSection struct {
	OrderID int
	Price   int
	Listing *Listing
}
