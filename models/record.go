package models

import (
	"encoding/json"
	"fmt"
)

// Activity is one line of an item's recent trade activity.
type Activity struct {
	ActivityType string `json:"activity_type"`
	Price        string `json:"price"`
}

// Record is the price/activity snapshot extracted from one item detail page.
// Empty price and quantity fields mean the value was not found on the page.
type Record struct {
	ID             int64      `json:"id"`
	URL            string     `json:"url"`
	BuyPrice       string     `json:"buy_price"`
	BuyQuantity    string     `json:"buy_quantity"`
	SellPrice      string     `json:"sell_price"`
	SellQuantity   string     `json:"sell_quantity"`
	RecentActivity []Activity `json:"recent_activity"`
}

// ActivityJSON encodes the recent activity for storage, preserving order.
// A record without activity encodes as an empty JSON array.
func (r *Record) ActivityJSON() (string, error) {
	activity := r.RecentActivity
	if activity == nil {
		activity = []Activity{}
	}
	b, err := json.Marshal(activity)
	if err != nil {
		return "", fmt.Errorf("encode recent activity: %w", err)
	}
	return string(b), nil
}

// DecodeActivity is the inverse of Record.ActivityJSON.
func DecodeActivity(blob string) ([]Activity, error) {
	activity := []Activity{}
	if blob == "" {
		return activity, nil
	}
	if err := json.Unmarshal([]byte(blob), &activity); err != nil {
		return nil, fmt.Errorf("decode recent activity: %w", err)
	}
	return activity, nil
}
