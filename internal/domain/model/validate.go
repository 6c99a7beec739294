//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/wishara/admin-console/internal/errors"
)

// requireText trims v and enforces a required, length-bounded field.
func requireText(field, label, v string, maxLen int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperrors.ValidationField(field, label+" is required")
	}
	return v, maxText(field, label, v, maxLen)
}

// maxText enforces an upper bound in characters (not bytes).
func maxText(field, label, v string, maxLen int) error {
	if utf8.RuneCountInString(v) > maxLen {
		return apperrors.ValidationField(field, label+" cannot exceed "+strconv.Itoa(maxLen)+" characters")
	}
	return nil
}

// optionalURL accepts an empty string or an absolute http(s) URL.
func optionalURL(field, label, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.ValidationField(field, label+" must be an http(s) URL")
	}
	return v, nil
}

func validationField(field, message string) error {
	return apperrors.ValidationField(field, message)
}
