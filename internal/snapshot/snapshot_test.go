package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"market-digest/internal/types"
)

func sampleSnapshot() types.Snapshot {
	at := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	sent := types.SentimentReading{Value: types.SentimentOf(62), Classification: "Greed"}
	assets := map[string][]types.AssetSnapshot{
		"indices": {{
			Name: "S&P 500", Price: 6100.25, Change: 12.5, Percent: 0.21,
			RSI: types.RSIOf(58.4), Trend: types.TrendBullish,
		}},
		"macro": {{
			Name: "VIX", Price: 14.2, Change: -0.3, Percent: -2.07,
			Trend: types.TrendNotApplicable,
		}},
	}
	articles := []types.CuratedArticle{{
		Category: "macro", Title: "聯準會按兵不動", Summary: "短評",
		Impact: types.ImpactNeutral, Score: 6,
		Link: "https://example.com/fed", Date: "2026-03-13",
	}}
	return Assemble(at, sent, assets, articles)
}

func TestAssembleNormalizesNilCollections(t *testing.T) {
	snap := Assemble(time.Now(), types.UnavailableSentiment(), nil, nil)
	if snap.Assets == nil {
		t.Error("nil assets must become an empty map")
	}
	if snap.Articles == nil {
		t.Error("nil articles must become an empty slice")
	}

	b, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"assets_by_category":{}`) {
		t.Errorf("expected empty assets object in %s", s)
	}
	if !strings.Contains(s, `"curated_articles":[]`) {
		t.Errorf("expected empty articles array in %s", s)
	}
}

func TestAssembleUpdateTimeIsUTC(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	at := time.Date(2026, 3, 14, 16, 30, 0, 0, loc)
	snap := Assemble(at, types.UnavailableSentiment(), nil, nil)
	if snap.UpdateTime != "2026-03-14T08:30:00Z" {
		t.Errorf("expected UTC RFC3339 timestamp, got %s", snap.UpdateTime)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily_digest.json")
	want := sampleSnapshot()

	if err := Write(want, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestWriteReplacesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily_digest.json")

	first := sampleSnapshot()
	if err := Write(first, path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	second := Assemble(time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC),
		types.UnavailableSentiment(), nil, nil)
	if err := Write(second, path); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.UpdateTime != second.UpdateTime {
		t.Errorf("expected full replacement, got update_time %s", got.UpdateTime)
	}
	if len(got.Assets) != 0 {
		t.Errorf("previous assets leaked into the new snapshot: %v", got.Assets)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daily_digest.json")
	if err := Write(sampleSnapshot(), path); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "daily_digest.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the snapshot file, got %v", names)
	}
}

func TestWriteCreatesOutputDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "daily_digest.json")
	if err := Write(sampleSnapshot(), path); err != nil {
		t.Fatalf("write into missing dir: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot not created: %v", err)
	}
}
