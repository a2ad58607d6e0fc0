package trending

import (
	"context"
	"errors"
	"testing"

	"newsrag/types"
	"newsrag/vectorstore"
)

type fakeIndex struct {
	records   []vectorstore.Record
	err       error
	lastLimit int
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, name string, dim int) error { return nil }
func (f *fakeIndex) Upsert(ctx context.Context, name string, points []vectorstore.Point) error {
	return nil
}
func (f *fakeIndex) Search(ctx context.Context, name string, vector []float32, limit int) ([]vectorstore.Hit, error) {
	return nil, nil
}

func (f *fakeIndex) Scroll(ctx context.Context, name string, limit int) ([]vectorstore.Record, error) {
	f.lastLimit = limit
	return f.records, f.err
}

func indexWithTitles(titles ...string) *fakeIndex {
	records := make([]vectorstore.Record, len(titles))
	for i, title := range titles {
		records[i] = vectorstore.Record{ID: title, Payload: types.Article{Title: title}}
	}
	return &fakeIndex{records: records}
}

func TestMineExcludesStopWordsAndShortTokens(t *testing.T) {
	miner := New(indexWithTitles("Latest News Update", "Bitcoin Rally Continues"))

	candidates := miner.Mine(context.Background(), 50)

	banned := map[string]bool{
		"What is news?":   true,
		"What is latest?": true,
		"What is update?": true,
		"What is report?": true,
	}
	got := make(map[string]bool)
	for _, c := range candidates {
		if banned[c.QueryText] {
			t.Errorf("stop word leaked into candidates: %q", c.QueryText)
		}
		got[c.QueryText] = true
	}
	for _, want := range []string{"What is bitcoin?", "What is rally?", "What is continues?"} {
		if !got[want] {
			t.Errorf("missing candidate %q; got %v", want, candidates)
		}
	}
}

func TestMineRanksByFrequencyWithStableTies(t *testing.T) {
	miner := New(indexWithTitles(
		"Bitcoin surges again",
		"Bitcoin miners expand",
		"Bitcoin funds arrive",
		"Election results announced",
		"Election debate tonight",
		"Weather warning issued",
	))

	candidates := miner.Mine(context.Background(), 50)
	if len(candidates) == 0 {
		t.Fatal("expected candidates")
	}
	if candidates[0].QueryText != "What is bitcoin?" {
		t.Errorf("top candidate = %q; want bitcoin (3 occurrences)", candidates[0].QueryText)
	}
	if candidates[1].QueryText != "What is election?" {
		t.Errorf("second candidate = %q; want election (2 occurrences)", candidates[1].QueryText)
	}
	// Among the 1-count tokens, first-encountered comes first
	if candidates[2].QueryText != "What is surges?" {
		t.Errorf("third candidate = %q; want first-encountered tie winner", candidates[2].QueryText)
	}
}

func TestMineCapsAtFiveTopics(t *testing.T) {
	miner := New(indexWithTitles("alpha bravo charlie delta echos foxtrot golfing hotels"))

	candidates := miner.Mine(context.Background(), 50)
	if len(candidates) != 5 {
		t.Fatalf("got %d candidates; want 5", len(candidates))
	}
	for _, c := range candidates {
		if c.NumberOfPassages != 5 {
			t.Errorf("candidate %q has %d passages; want 5", c.QueryText, c.NumberOfPassages)
		}
	}
}

func TestMineScanFailureIsEmpty(t *testing.T) {
	miner := New(&fakeIndex{err: errors.New("connection refused")})

	if candidates := miner.Mine(context.Background(), 50); len(candidates) != 0 {
		t.Fatalf("got %d candidates on scan failure; want 0", len(candidates))
	}
}

func TestMinePassesSampleSize(t *testing.T) {
	index := indexWithTitles("Bitcoin Rally Continues")
	miner := New(index)

	miner.Mine(context.Background(), 50)
	if index.lastLimit != 50 {
		t.Fatalf("scroll limit = %d; want 50", index.lastLimit)
	}
}
