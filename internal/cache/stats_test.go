package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/model"
)

func TestStatsKey(t *testing.T) {
	t.Parallel()

	if got := statsKey("01HZX"); got != "stats:01HZX" {
		t.Errorf("statsKey = %q, want stats:01HZX", got)
	}
	if statsKey("a") == statsKey("b") {
		t.Error("different owners should not share a key")
	}
}

func TestStatsGenKey(t *testing.T) {
	t.Parallel()

	if got := statsGenKey("01HZX"); got != "stats:gen:01HZX" {
		t.Errorf("statsGenKey = %q, want stats:gen:01HZX", got)
	}
	if statsGenKey("01HZX") == statsKey("01HZX") {
		t.Error("generation and stats entries should not share a key")
	}
}

func TestParseGeneration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      interface{}
		want    uint64
		wantErr bool
	}{
		{"missing", nil, 0, false},
		{"stored", "7", 7, false},
		{"garbage", "seven", 0, true},
		{"negative", "-1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGeneration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseGeneration(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseGeneration(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeStats(t *testing.T) {
	t.Parallel()

	latest := &model.Record{
		ID:     "r1",
		Kind:   model.KindIncome,
		Title:  "Salary",
		Amount: 3000,
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	in := &model.Stats{Income: 3000, Balance: 3000, MinIncome: 3000, MaxIncome: 3000, LatestIncome: latest}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := decodeStats(data)
	if err != nil {
		t.Fatalf("decodeStats: %v", err)
	}
	if out.Income != 3000 || out.Balance != 3000 {
		t.Errorf("totals not preserved: %+v", out)
	}
	if out.LatestIncome == nil || out.LatestIncome.Title != "Salary" || !out.LatestIncome.Date.Equal(latest.Date) {
		t.Errorf("latest income not preserved: %+v", out.LatestIncome)
	}
	if out.LatestExpense != nil {
		t.Errorf("expected no latest expense, got %+v", out.LatestExpense)
	}
}

func TestDecodeStats_Corrupted(t *testing.T) {
	t.Parallel()

	if _, err := decodeStats([]byte("{not json")); err == nil {
		t.Error("expected error for corrupted entry")
	}
}

func TestNewWithClient_DefaultTTL(t *testing.T) {
	t.Parallel()

	c := NewWithClient(nil, 0)
	if c.statsTTL != DefaultStatsTTL {
		t.Errorf("statsTTL = %v, want %v", c.statsTTL, DefaultStatsTTL)
	}

	c = NewWithClient(nil, time.Minute)
	if c.statsTTL != time.Minute {
		t.Errorf("statsTTL = %v, want 1m", c.statsTTL)
	}
}
