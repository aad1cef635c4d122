package ingest_test

import (
	"testing"

	"vidya/src/core/ingest"
)

func TestPageOf(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{
			name:   "start of the chapter",
			offset: 0,
			want:   1,
		},
		{
			name:   "last char of page one",
			offset: 1799,
			want:   1,
		},
		{
			name:   "first char of page two",
			offset: 1800,
			want:   2,
		},
		{
			name:   "deep into the chapter",
			offset: 9000,
			want:   6,
		},
		{
			name:   "negative offset clamps to page one",
			offset: -5,
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ingest.PageOf(tt.offset)
			if got != tt.want {
				t.Errorf("PageOf(%d) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}
