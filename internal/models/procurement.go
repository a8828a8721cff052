package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Procurement order statuses
const (
	ProcurementStatusDraft     = "draft"
	ProcurementStatusPlaced    = "placed"
	ProcurementStatusReceived  = "received"
	ProcurementStatusCancelled = "cancelled"
)

// ValidProcurementStatus reports whether s is a known procurement status.
func ValidProcurementStatus(s string) bool {
	switch s {
	case ProcurementStatusDraft, ProcurementStatusPlaced,
		ProcurementStatusReceived, ProcurementStatusCancelled:
		return true
	}
	return false
}

type ProcurementOrder struct {
	ID                uuid.UUID `json:"id" db:"id"`
	SupplierID        uuid.UUID `json:"supplier_id" db:"supplier_id"`
	ProductID         uuid.UUID `json:"product_id" db:"product_id"`
	Quantity          int       `json:"quantity" db:"quantity"`
	UnitPrice         float64   `json:"unit_price" db:"unit_price"`
	Status            string    `json:"status" db:"status"`
	PushedToInventory bool      `json:"pushed_to_inventory" db:"pushed_to_inventory"`
	CreatedBy         uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ProcurementOrderRow joins supplier and product names for list responses.
type ProcurementOrderRow struct {
	ProcurementOrder
	SupplierName string `json:"supplier_name"`
	ProductName  string `json:"product_name"`
}

type ProcurementFilter struct {
	SupplierID *uuid.UUID
	ProductID  *uuid.UUID
	Status     string
	Page       int
	PageSize   int
}

// ProcurementReview is the single review slot for a procurement order.
// Repeat reviews update the rating and append to ReviewText as a dated entry.
type ProcurementReview struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ProcurementOrderID uuid.UUID `json:"procurement_order_id" db:"procurement_order_id"`
	Rating             int       `json:"rating" db:"rating"`
	ReviewText         string    `json:"review_text" db:"review_text"`
	ReviewerID         uuid.UUID `json:"reviewer_id" db:"reviewer_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

type ProcurementReviewImage struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ReviewID   uuid.UUID `json:"review_id" db:"review_id"`
	ObjectName string    `json:"object_name" db:"object_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ReviewHistoryEntry is one parsed entry of a review's accumulated text.
// Timestamp is nil for legacy text that predates the dated-entry format.
type ReviewHistoryEntry struct {
	Timestamp *string `json:"timestamp"`
	Body      string  `json:"body"`
}

var reviewEntryRe = regexp.MustCompile(`(?s)^\[(.+?)\]\s*(.*)$`)

// ParseReviewHistory splits accumulated review text into entries. Entries are
// separated by a blank line followed by a bracketed timestamp, parts that do
// not start with one become undated entries.
func ParseReviewHistory(text string) []ReviewHistoryEntry {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var entries []ReviewHistoryEntry
	for _, part := range splitReviewEntries(text) {
		if m := reviewEntryRe.FindStringSubmatch(part); m != nil {
			ts := m[1]
			entries = append(entries, ReviewHistoryEntry{Timestamp: &ts, Body: m[2]})
		} else {
			entries = append(entries, ReviewHistoryEntry{Body: strings.TrimSpace(part)})
		}
	}
	return entries
}

// splitReviewEntries splits on blank lines only when the next entry opens
// with "[", so bracketed text inside a body never starts a new entry.
func splitReviewEntries(text string) []string {
	boundary := regexp.MustCompile(`\n[ \t]*\n`)
	var parts []string
	rest := text
	for {
		loc := findBoundaryBeforeBracket(boundary, rest)
		if loc == nil {
			break
		}
		parts = append(parts, rest[:loc[0]])
		rest = rest[loc[1]:]
	}
	return append(parts, rest)
}

func findBoundaryBeforeBracket(boundary *regexp.Regexp, text string) []int {
	offset := 0
	for {
		loc := boundary.FindStringIndex(text[offset:])
		if loc == nil {
			return nil
		}
		start, end := offset+loc[0], offset+loc[1]
		if end < len(text) && text[end] == '[' {
			return []int{start, end}
		}
		offset = end
	}
}

// AppendReviewEntry appends a dated entry to existing review text.
func AppendReviewEntry(existing, newText string, now time.Time) string {
	entry := "[" + now.UTC().Format("2006-01-02 15:04 UTC") + "] " + newText
	if strings.TrimSpace(existing) == "" {
		return entry
	}
	return existing + "\n\n" + entry
}
