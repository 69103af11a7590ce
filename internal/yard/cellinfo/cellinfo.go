// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cellinfo tracks the container parked on a grid cell.

Each cell carries at most one record. Staff create, edit, remove, and move records
between cells from the yard dashboard; every change is broadcast on the
cells-information channel.

A record disappears with its cell when a resize shrinks the grid.
*/
package cellinfo

import "time"

// # Vocabulary

// ShippingLines is the closed list of carriers operating in the yard.
var ShippingLines = []string{
	"BENLINE - HARBOUR LINK",
	"BENLINE - MBF CARPENTER",
	"BLPL",
	"CONCORDE",
	"COSCO",
	"ENTERPHIL",
	"ELAN INTERNATIONAL",
	"EW INTERNATIONAL",
	"KYOWA",
	"LANCER",
	"MSC",
	"NAMSUNG",
	"NEW ZEALAND",
	"OOCL",
	"PENEX / ORCHID",
	"RCL",
	"SAMUDERA / M STAR",
	"SEAFRONT",
	"SWIRE SHIPPING PTE LTD",
	"TAEWOONG",
}

// Sizes lists the accepted container footprints.
var Sizes = []string{"1 x 40", "1 x 20"}

// Types lists the accepted container types.
var Types = []string{"DRY HIGH CUBE", "DRY STANDARD", "REEFER", "FLAT RACK", "OPEN TOP"}

// Statuses lists the accepted container conditions.
var Statuses = []string{StatusAvailable, "For Repair", "Pending Approval EOR", "Damaged"}

// StatusAvailable is the condition assumed when none is given.
const StatusAvailable = "Available"

// # Entity

// Info is the container record attached to one cell.
type Info struct {
	ID           int64     `json:"id"`
	CellID       string    `json:"cell_id"`
	ShippingLine string    `json:"shipping_line"`
	Size         string    `json:"size"`
	Type         string    `json:"type"`
	CellStatus   string    `json:"cell_status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Input carries a create or update request. CellID is ignored on update.
type Input struct {
	CellID       string `json:"cell_id"`
	ShippingLine string `json:"shipping_line"`
	Size         string `json:"size"`
	Type         string `json:"type"`
	CellStatus   string `json:"cell_status"`
}

// MoveInput carries a move request.
type MoveInput struct {
	FromCellID string `json:"from_cell_id"`
	ToCellID   string `json:"to_cell_id"`
}

// # Broadcast Events

const (
	EventCreated = "CellsInformationCreated"
	EventUpdated = "CellsInformationUpdated"
	EventDeleted = "CellsInformationDeleted"
)

// InfoEvent is the payload of [EventCreated] and [EventUpdated].
type InfoEvent struct {
	CellInfo *Info `json:"cell_info"`
}

// DeletedEvent is the payload of [EventDeleted].
type DeletedEvent struct {
	CellID string `json:"cell_id"`
}
