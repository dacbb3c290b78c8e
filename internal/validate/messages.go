package validate

import "strings"

func violation(path, tag, param string, kind ...string) *Violation {
	return &Violation{
		Field:   path,
		Rule:    tag,
		Message: message(tag, param, kind...),
	}
}

func message(tag, param string, kind ...string) string {
	of := ""
	if len(kind) > 0 {
		of = kind[0]
	}
	switch tag {
	case "required":
		return "is required"
	case "max":
		switch of {
		case "string":
			return "must not be greater than " + param + " characters"
		case "slice", "array", "map":
			return "must not have more than " + param + " items"
		}
		return "must not be greater than " + param
	case "min":
		switch of {
		case "string":
			return "must be at least " + param + " characters"
		case "slice", "array", "map":
			return "must have at least " + param + " items"
		}
		return "must be at least " + param
	case "len":
		return "must have exactly " + param + " items"
	case "oneof":
		return "must be one of [" + strings.ReplaceAll(param, " ", ", ") + "]"
	case "string":
		return "must be a string"
	case "integer":
		return "must be an integer"
	case "numeric":
		return "must be a number"
	case "boolean":
		return "must be true or false"
	case "object":
		return "must be an object"
	case "list":
		return "must be a list"
	case "https_url":
		return "must be a valid https:// URL"
	case "link_uri":
		return "must be a valid http://, https://, line:// or tel:// URI"
	case "picker_date":
		return "must be a date (2006-01-02), time (15:04) or datetime (2006-01-02T15:04)"
	}
	return "is invalid (" + tag + ")"
}
