// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate time-ordered identifiers.
//
// Request ids use it so that log lines sort by arrival.
package uuidv7

import "github.com/google/uuid"

// New returns a UUIDv7 string, or a random v4 one if the clock-based generator fails.
func New() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
