package testutil

import "github.com/leengari/tabcalc/internal/domain/data"

// SalesRows returns a small sales dataset with a duplicate order and gaps in
// the region column
func SalesRows() data.Dataset {
	return data.Dataset{
		data.NewRow(data.F("order", "A-1"), data.F("region", "East"), data.F("rep", "ann"), data.F("amount", 50.0)),
		data.NewRow(data.F("order", "A-2"), data.F("region", ""), data.F("rep", "bob"), data.F("amount", 150.0)),
		data.NewRow(data.F("order", "A-3"), data.F("region", "West"), data.F("rep", "ann"), data.F("amount", 200.0)),
		data.NewRow(data.F("order", "A-3"), data.F("region", "West"), data.F("rep", "ann"), data.F("amount", 200.0)),
		data.NewRow(data.F("order", "A-4"), data.F("region", nil), data.F("rep", "cy"), data.F("amount", 75.0)),
	}
}

// PivotRows returns the three-row dataset used by pivot examples
func PivotRows() data.Dataset {
	return data.Dataset{
		data.NewRow(data.F("r", "A"), data.F("c", "X"), data.F("v", 1.0)),
		data.NewRow(data.F("r", "A"), data.F("c", "Y"), data.F("v", 2.0)),
		data.NewRow(data.F("r", "B"), data.F("c", "X"), data.F("v", 3.0)),
	}
}
