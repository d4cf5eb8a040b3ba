package models

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	stamp := time.Date(2026, 6, 15, 3, 30, 0, 0, loc) // 2026-06-14 18:30 UTC

	got := NormalizeDate(stamp)
	want := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSlotMatchesByCalendarDay(t *testing.T) {
	day := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	trip := &Trip{Availability: []AvailabilitySlot{
		{Date: day, AvailableSpots: 5, SpotsNumber: 10},
	}}

	slot := trip.Slot(day.Add(13 * time.Hour))
	if slot == nil {
		t.Fatal("expected slot lookup to ignore time of day")
	}
	if slot.AvailableSpots != 5 {
		t.Errorf("wrong slot returned: %+v", slot)
	}

	if trip.Slot(day.AddDate(0, 0, 1)) != nil {
		t.Error("expected nil for a day with no departure")
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		discount int64
		want     int64
	}{
		{"no discount", 150000, 0, 150000},
		{"discount applies", 150000, 120000, 120000},
		{"discount above price ignored", 150000, 200000, 150000},
	}
	for _, tt := range tests {
		trip := &Trip{Price: tt.price, PriceDiscount: tt.discount}
		if got := trip.UnitPrice(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestTotalPrice(t *testing.T) {
	if got := TotalPrice(25000, 4); got != 100000 {
		t.Errorf("expected 100000, got %d", got)
	}
}
