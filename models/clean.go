package models

import (
	"encoding/json"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// CleanValue prepares a raw dataset value for display. Strings have
// underscores replaced with spaces, numbers are read as ratios and printed
// as percentages with at most one fraction digit, anything else is
// returned as is.
func CleanValue(item any) any {
	switch v := item.(type) {
	case string:
		return strings.ReplaceAll(v, "_", " ")
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return item
		}
		return formatPercent(f)
	}

	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return formatPercent(rv.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return formatPercent(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return formatPercent(float64(rv.Uint()))
	}
	return item
}

func formatPercent(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v*100, number.MaxFractionDigits(1)))
}

// Label turns a field key such as "full_name" into a column heading.
func Label(key string) string {
	cleaned, _ := CleanValue(key).(string)
	return cases.Title(language.English).String(strings.ToLower(cleaned))
}
