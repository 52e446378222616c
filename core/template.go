package core

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// placeholderRe matches any {placeholder} left in a path.
var placeholderRe = regexp.MustCompile(`\{.*\}`)

// ResolveTemplate replaces the first occurrence of {key} in path with the
// stringified value for every key in templateParams. If any placeholder remains
// afterwards a MissingTemplateParamError is returned.
func ResolveTemplate(path string, templateParams Params) (string, error) {
	keys := make([]string, 0, len(templateParams))
	for key := range templateParams {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		path = strings.Replace(path, "{"+key+"}", fmt.Sprint(templateParams[key]), 1)
	}
	if placeholderRe.MatchString(path) {
		return "", &MissingTemplateParamError{Path: path}
	}
	return path, nil
}

// BuildQuery returns the query string for a request. The xrfkey parameter always
// comes first, followed by queryParams in key order.
func BuildQuery(xrfkey string, queryParams Params) string {
	query := "?" + XrfkeyQueryParam + "=" + url.QueryEscape(xrfkey)
	if len(queryParams) > 0 {
		query += "&" + queryParams.ToQuery()
	}
	return query
}

// buildUrl joins scheme, host, port, prefix, the resolved path and the query.
func buildUrl(config *QRSConfig, path, query string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s%s%s%s", config.Scheme(), config.Address(), config.Prefix, path, query)
}

// splitPath separates a schema path from its optional "?query" template suffix.
func splitPath(path string) (string, string) {
	base, query, _ := strings.Cut(path, "?")
	return base, query
}

// MethodName derives a method name from a verb and a path: the lowercased verb
// followed by every non-empty path segment except the "qrs" namespace, braces
// stripped and the first letter capitalized.
//
//	GET /qrs/app/{id}/export -> getAppIdExport
func MethodName(verb, path string) string {
	base, _ := splitPath(path)
	var name strings.Builder
	name.WriteString(strings.ToLower(verb))
	for _, segment := range strings.Split(base, "/") {
		if segment == "" || segment == apiNamespace {
			continue
		}
		segment = strings.NewReplacer("{", "", "}", "").Replace(segment)
		if segment == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(segment)
		name.WriteRune(unicode.ToUpper(first))
		name.WriteString(segment[size:])
	}
	return name.String()
}
