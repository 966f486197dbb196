package formula

import (
	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/criteria"
	"github.com/leengari/tabcalc/internal/domain/data"
)

// SUMIF(column, criteria, sumColumn=column)
func fnSumIf(e *env, args *argList) (data.Value, error) {
	total, _, err := foldIf(e, args)
	if err != nil {
		return nil, err
	}
	return total, nil
}

// COUNTIF(column, criteria)
func fnCountIf(e *env, args *argList) (data.Value, error) {
	_, count, err := foldIf(e, args)
	if err != nil {
		return nil, err
	}
	return float64(count), nil
}

// AVERAGEIF(column, criteria, avgColumn=column) is 0 when nothing matches
func fnAverageIf(e *env, args *argList) (data.Value, error) {
	total, count, err := foldIf(e, args)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return 0.0, nil
	}
	return total / float64(count), nil
}

// foldIf walks every row of the evaluation dataset, testing column against
// criteria and summing the value column of matching rows.
func foldIf(e *env, args *argList) (float64, int, error) {
	col, err := args.Text(0)
	if err != nil {
		return 0, 0, err
	}
	crit, err := args.Text(1)
	if err != nil {
		return 0, 0, err
	}
	valueCol, err := args.TextOr(2, col)
	if err != nil {
		return 0, 0, err
	}
	if err := requireColumn(e.ds, col); err != nil {
		return 0, 0, err
	}
	if err := requireColumn(e.ds, valueCol); err != nil {
		return 0, 0, err
	}

	pred := criteria.Compile(crit)
	var total float64
	var count int
	for _, row := range e.ds {
		if !pred(row.Value(col)) {
			continue
		}
		total += coerce.ToNumber(row.Value(valueCol))
		count++
	}
	return total, count, nil
}

// LOOKUP(key, keyColumn, returnColumn) returns the return value of the first
// row whose key column text equals the key text, or empty if none match.
func fnLookup(e *env, args *argList) (data.Value, error) {
	key, err := args.Text(0)
	if err != nil {
		return nil, err
	}
	keyCol, err := args.Text(1)
	if err != nil {
		return nil, err
	}
	retCol, err := args.Text(2)
	if err != nil {
		return nil, err
	}
	if err := requireColumn(e.ds, keyCol); err != nil {
		return nil, err
	}

	for _, row := range e.ds {
		if coerce.ToText(row.Value(keyCol)) == key {
			return row.Value(retCol), nil
		}
	}
	return nil, nil
}

// requireColumn fails when a non-empty dataset has no row carrying the column
func requireColumn(ds data.Dataset, name string) error {
	if len(ds) == 0 {
		return nil
	}
	for _, row := range ds {
		if row.Has(name) {
			return nil
		}
	}
	return newUnknownField(name)
}
