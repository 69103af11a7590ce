// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yardmap/pkg/query"
)

func TestCSV(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"empty", "", []string{}},
		{"blanks_only", " , ,", []string{}},
		{"trimmed", " categories,map-layout ", []string{"categories", "map-layout"}},
		{"duplicates", "a,b,a", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.CSV(tt.value))
		})
	}
}
