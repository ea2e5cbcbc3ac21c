package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Reserved directive names behind the sentinel.
const (
	sentinel     = "$"
	opDelimiter  = "__"
	nameOrderBy  = "order_by"
	namePage     = "page"
	namePerPage  = "per_page"
	orderDescend = "-"
)

// Parser turns a raw query string into typed tokens. All interpretation
// of the sentinel grammar lives here; downstream stages only ever see
// tokens.
//
// The raw string is walked pair by pair instead of going through
// url.Values so that filter insertion order survives into diagnostics.
type Parser struct{}

// NewParser returns a query string parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse tokenizes rawQuery against the model. Unprefixed keys that name
// real model fields become equality filters; unprefixed keys that do not
// are ignored as incidental parameters. Sentinel-prefixed keys must match
// a reserved name or carry a known operator suffix, otherwise parsing
// fails with UnknownDirectiveError.
func (p *Parser) Parse(model *Model, rawQuery string) (*Parsed, error) {
	parsed := &Parsed{}

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		value, err := url.QueryUnescape(rawVal)
		if err != nil {
			value = rawVal
		}

		if !strings.HasPrefix(key, sentinel) {
			if _, ok := model.Field(key); ok {
				parsed.Filters = append(parsed.Filters, FilterToken{
					Field:    key,
					Operator: OpEqual,
					RawValue: value,
				})
			}
			continue
		}

		name := strings.TrimPrefix(key, sentinel)
		switch name {
		case namePage:
			n, err := parsePositive(namePage, value)
			if err != nil {
				return nil, err
			}
			parsed.Pagination.Page = n
		case namePerPage:
			n, err := parsePositive(namePerPage, value)
			if err != nil {
				return nil, err
			}
			parsed.Pagination.PerPage = n
		case nameOrderBy:
			parsed.Order = parseOrder(value)
		default:
			tok, ok := parseFilterDirective(name, value)
			if !ok {
				return nil, &UnknownDirectiveError{Key: name}
			}
			parsed.Filters = append(parsed.Filters, tok)
		}
	}
	return parsed, nil
}

// parseFilterDirective interprets "field__operator" directive names.
func parseFilterDirective(name, value string) (FilterToken, bool) {
	field, suffix, found := strings.Cut(name, opDelimiter)
	if !found || field == "" {
		return FilterToken{}, false
	}
	op, ok := operatorNames[suffix]
	if !ok {
		return FilterToken{}, false
	}
	tok := FilterToken{Field: field, Operator: op}
	if op.IsList() {
		tok.RawList = splitList(value)
	} else {
		tok.RawValue = value
	}
	return tok, true
}

// parseOrder splits a comma-separated ordering value. A leading "-"
// means descending.
func parseOrder(value string) []OrderKey {
	var keys []OrderKey
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := OrderKey{Field: part}
		if strings.HasPrefix(part, orderDescend) {
			key.Field = strings.TrimPrefix(part, orderDescend)
			key.Desc = true
		}
		keys = append(keys, key)
	}
	return keys
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func parsePositive(param, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, &PaginationError{Param: param, Value: value}
	}
	return n, nil
}
