// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued settings and query parameters.
package query

import (
	"strings"

	"github.com/taibuivan/yardmap/pkg/slice"
)

// CSV splits a comma-separated value into trimmed, non-empty, de-duplicated
// entries in first-seen order. An empty input yields an empty slice.
//
//	CSV(" a, ,b,a") // ["a", "b"]
func CSV(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' })

	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			entries = append(entries, clean)
		}
	}
	return slice.Unique(entries)
}
