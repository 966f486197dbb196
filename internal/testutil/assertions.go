// Package testutil holds assertion helpers and fixtures shared by package tests.
package testutil

import (
	"reflect"
	"testing"

	"github.com/leengari/tabcalc/internal/coerce"
	"github.com/leengari/tabcalc/internal/domain/data"
)

// AssertRowCount checks if the dataset has the expected number of rows
func AssertRowCount(t *testing.T, ds data.Dataset, expected int, context string) {
	t.Helper()
	if len(ds) != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, len(ds))
	}
}

// AssertFields checks that a row carries exactly the given fields, in order
func AssertFields(t *testing.T, row data.Row, expected []string, context string) {
	t.Helper()
	got := row.Fields()
	if len(got) != len(expected) {
		t.Errorf("%s: expected fields %v, got %v", context, expected, got)
		return
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("%s: expected fields %v, got %v", context, expected, got)
			return
		}
	}
}

// AssertColumnExists checks if a field exists in a row
func AssertColumnExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if !row.Has(column) {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a field does not exist in a row
func AssertColumnNotExists(t *testing.T, row data.Row, column, context string) {
	t.Helper()
	if row.Has(column) {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertColumnText compares one column's textual form across all rows
func AssertColumnText(t *testing.T, ds data.Dataset, column string, expected []string, context string) {
	t.Helper()
	if len(ds) != len(expected) {
		t.Errorf("%s: expected %d rows, got %d", context, len(expected), len(ds))
		return
	}
	for i, row := range ds {
		if got := coerce.ToText(row.Value(column)); got != expected[i] {
			t.Errorf("%s: row %d column '%s': expected %q, got %q", context, i, column, expected[i], got)
		}
	}
}

// AssertSameDataset checks that two datasets hold the same rows with the same
// field order and values
func AssertSameDataset(t *testing.T, actual, expected data.Dataset, context string) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Errorf("%s: expected %d rows, got %d", context, len(expected), len(actual))
		return
	}
	for i := range actual {
		if !reflect.DeepEqual(actual[i].Fields(), expected[i].Fields()) ||
			!reflect.DeepEqual(actual[i].ToMap(), expected[i].ToMap()) {
			t.Errorf("%s: row %d: expected %s, got %s", context, i, expected[i], actual[i])
		}
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}
