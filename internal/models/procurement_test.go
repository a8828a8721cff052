package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseReviewHistory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []ReviewHistoryEntry
	}{
		{
			name: "empty text",
			text: "   ",
			want: nil,
		},
		{
			name: "single undated entry",
			text: "Good quality produce",
			want: []ReviewHistoryEntry{
				{Body: "Good quality produce"},
			},
		},
		{
			name: "single dated entry",
			text: "[2026-03-01 10:30 UTC] Good quality produce",
			want: []ReviewHistoryEntry{
				{Timestamp: strPtr("2026-03-01 10:30 UTC"), Body: "Good quality produce"},
			},
		},
		{
			name: "multiple dated entries",
			text: "[2026-03-01 10:30 UTC] First impression\n\n[2026-03-05 08:00 UTC] Second delivery was late",
			want: []ReviewHistoryEntry{
				{Timestamp: strPtr("2026-03-01 10:30 UTC"), Body: "First impression"},
				{Timestamp: strPtr("2026-03-05 08:00 UTC"), Body: "Second delivery was late"},
			},
		},
		{
			name: "legacy undated entry followed by dated ones",
			text: "Original note\n\n[2026-03-05 08:00 UTC] Updated after delivery",
			want: []ReviewHistoryEntry{
				{Body: "Original note"},
				{Timestamp: strPtr("2026-03-05 08:00 UTC"), Body: "Updated after delivery"},
			},
		},
		{
			name: "blank line inside an entry body does not split",
			text: "[2026-03-01 10:30 UTC] First paragraph\n\nstill the same entry\n\n[2026-03-05 08:00 UTC] Next entry",
			want: []ReviewHistoryEntry{
				{Timestamp: strPtr("2026-03-01 10:30 UTC"), Body: "First paragraph\n\nstill the same entry"},
				{Timestamp: strPtr("2026-03-05 08:00 UTC"), Body: "Next entry"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReviewHistory(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppendReviewEntry(t *testing.T) {
	now := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)

	t.Run("first entry has no separator", func(t *testing.T) {
		got := AppendReviewEntry("", "Fresh and on time", now)
		assert.Equal(t, "[2026-03-05 08:00 UTC] Fresh and on time", got)
	})

	t.Run("later entries append after a blank line", func(t *testing.T) {
		existing := "[2026-03-01 10:30 UTC] First impression"
		got := AppendReviewEntry(existing, "Second delivery was late", now)
		assert.Equal(t, existing+"\n\n[2026-03-05 08:00 UTC] Second delivery was late", got)
	})

	t.Run("appended history round-trips through the parser", func(t *testing.T) {
		text := AppendReviewEntry("", "First", now)
		text = AppendReviewEntry(text, "Second", now.Add(48*time.Hour))

		entries := ParseReviewHistory(text)
		assert.Len(t, entries, 2)
		assert.Equal(t, "First", entries[0].Body)
		assert.Equal(t, "Second", entries[1].Body)
	})
}

func strPtr(s string) *string {
	return &s
}
