package aggregate

import (
	"fmt"
	"strings"
)

// ParsePivotSpec reads "rows=a,b;cols=c;value=v;agg=sum".
// Every part is optional except that a value is needed unless agg=count.
// agg defaults to sum.
func ParsePivotSpec(s string) (PivotSpec, error) {
	kv, err := parsePairs(s, "rows", "cols", "value", "agg")
	if err != nil {
		return PivotSpec{}, err
	}
	agg, err := parseAgg(kv["agg"])
	if err != nil {
		return PivotSpec{}, err
	}
	return PivotSpec{
		RowKeys:    splitList(kv["rows"]),
		ColKeys:    splitList(kv["cols"]),
		ValueField: kv["value"],
		Aggregator: agg,
	}, nil
}

// ParseChartSpec reads "x=a;y=v;series=s;agg=sum". agg defaults to sum.
func ParseChartSpec(s string) (ChartSpec, error) {
	kv, err := parsePairs(s, "x", "y", "series", "agg")
	if err != nil {
		return ChartSpec{}, err
	}
	agg, err := parseAgg(kv["agg"])
	if err != nil {
		return ChartSpec{}, err
	}
	return ChartSpec{
		XField:      kv["x"],
		YField:      kv["y"],
		SeriesField: kv["series"],
		Aggregator:  agg,
	}, nil
}

func parseAgg(s string) (Aggregator, error) {
	if s == "" {
		return Sum, nil
	}
	return ParseAggregator(s)
}

func parsePairs(s string, allowed ...string) (map[string]string, error) {
	kv := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", part)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if !contains(allowed, key) {
			return nil, fmt.Errorf("unknown key %q (want one of %s)", key, strings.Join(allowed, ", "))
		}
		kv[key] = strings.TrimSpace(value)
	}
	return kv, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
