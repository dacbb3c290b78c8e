package validate

import (
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// secure URL with a dotted host name, optional port
	httpsURL = regexp.MustCompile(`(?i)^https://([A-Z0-9][A-Z0-9_-]*(?:\.[A-Z0-9][A-Z0-9_-]*)+):?(\d+)?/?`)
	// action link; LINE accepts these schemes only
	linkURI = regexp.MustCompile(`(?i)^(http|https|line|tel)://([A-Z0-9][A-Z0-9_-]*)?`)

	// datetimepicker value layouts: date, time, datetime
	pickerLayouts = []string{
		"2006-01-02",
		"15:04",
		"2006-01-02T15:04",
	}
)

var customTags = map[string]validator.Func{
	"string":      isString,
	"integer":     isInteger,
	"object":      isObject,
	"list":        isList,
	"https_url":   isHTTPSURL,
	"link_uri":    isLinkURI,
	"picker_date": isPickerDate,
}

func isString(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String
}

func isInteger(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f)
	case reflect.String:
		_, err := strconv.ParseInt(strings.TrimSpace(field.String()), 10, 64)
		return err == nil
	}
	return false
}

func isObject(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.Map
}

func isList(fl validator.FieldLevel) bool {
	kind := fl.Field().Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func isHTTPSURL(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	s := field.String()
	if !httpsURL.MatchString(s) {
		return false
	}
	link, err := url.ParseRequestURI(s)
	return err == nil && link.Host != ""
}

func isLinkURI(fl validator.FieldLevel) bool {
	field := fl.Field()
	return field.Kind() == reflect.String &&
		linkURI.MatchString(field.String())
}

func isPickerDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	s := strings.Replace(field.String(), "t", "T", 1)
	for _, layout := range pickerLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
