package ingest

import (
	"context"
	"errors"
	"testing"

	"newsrag/embeddings"
	"newsrag/types"
	"newsrag/vectorstore"
)

type fakeEmbedder struct {
	err   error
	calls [][]string
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string, input embeddings.InputType) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake" }

type fakeIndex struct {
	upserted []vectorstore.Point
}

func (f *fakeIndex) EnsureCollection(ctx context.Context, name string, dim int) error { return nil }

func (f *fakeIndex) Upsert(ctx context.Context, name string, points []vectorstore.Point) error {
	f.upserted = append(f.upserted, points...)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, name string, vector []float32, limit int) ([]vectorstore.Hit, error) {
	return nil, nil
}

func (f *fakeIndex) Scroll(ctx context.Context, name string, limit int) ([]vectorstore.Record, error) {
	return nil, nil
}

type fakeSeen struct {
	seen   map[string]bool
	marked []string
}

func (f *fakeSeen) Seen(ctx context.Context, a *types.Article) (bool, error) {
	return f.seen[a.Link], nil
}

func (f *fakeSeen) Mark(ctx context.Context, a *types.Article) error {
	f.marked = append(f.marked, a.Link)
	return nil
}

func TestIndexArticlesSkipsSeen(t *testing.T) {
	index := &fakeIndex{}
	seen := &fakeSeen{seen: map[string]bool{"https://example.com/b": true}}
	ix := NewIndexer(&fakeEmbedder{}, index, nil, seen)

	articles := []*types.Article{
		{Title: "A", Link: "https://example.com/a", FullContent: "one"},
		{Title: "B", Link: "https://example.com/b", FullContent: "two"},
		{Title: "C", Link: "https://example.com/c", FullContent: "three"},
	}
	if err := ix.IndexArticles(context.Background(), articles); err != nil {
		t.Fatalf("IndexArticles: %v", err)
	}

	if len(index.upserted) != 2 {
		t.Fatalf("upserted %d points; want 2", len(index.upserted))
	}
	if index.upserted[0].Payload.Title != "A" || index.upserted[1].Payload.Title != "C" {
		t.Errorf("upserted titles = %q, %q; want A, C",
			index.upserted[0].Payload.Title, index.upserted[1].Payload.Title)
	}
	if len(seen.marked) != 2 {
		t.Errorf("marked %d articles; want the 2 fresh ones", len(seen.marked))
	}
}

func TestIndexArticlesLeavesInputSliceIntact(t *testing.T) {
	seen := &fakeSeen{seen: map[string]bool{"https://example.com/a": true}}
	ix := NewIndexer(&fakeEmbedder{}, &fakeIndex{}, nil, seen)

	articles := []*types.Article{
		{Title: "A", Link: "https://example.com/a"},
		{Title: "B", Link: "https://example.com/b"},
		{Title: "C", Link: "https://example.com/c"},
	}
	if err := ix.IndexArticles(context.Background(), articles); err != nil {
		t.Fatalf("IndexArticles: %v", err)
	}

	for i, want := range []string{"A", "B", "C"} {
		if articles[i].Title != want {
			t.Errorf("articles[%d].Title = %q; want %q", i, articles[i].Title, want)
		}
	}
}

func TestHandleMessageMarksUndecodablePayload(t *testing.T) {
	index := &fakeIndex{}
	h := NewArticleHandler(NewIndexer(&fakeEmbedder{}, index, nil, nil))

	shouldMark, err := h.HandleMessage(context.Background(), []byte(`{"title":`))
	if err != nil {
		t.Fatalf("err = %v; want nil so the message gets marked", err)
	}
	if !shouldMark {
		t.Error("shouldMark = false; a poison message must be marked")
	}
	if len(index.upserted) != 0 {
		t.Errorf("upserted %d points; want 0", len(index.upserted))
	}
}

func TestHandleMessageMarksLinklessPayload(t *testing.T) {
	index := &fakeIndex{}
	h := NewArticleHandler(NewIndexer(&fakeEmbedder{}, index, nil, nil))

	shouldMark, err := h.HandleMessage(context.Background(), []byte(`{"title":"No link"}`))
	if err != nil || !shouldMark {
		t.Fatalf("got (%v, %v); want (true, nil)", shouldMark, err)
	}
	if len(index.upserted) != 0 {
		t.Errorf("upserted %d points; want 0", len(index.upserted))
	}
}

func TestHandleMessageRetriesOnIndexFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("embed down")}
	h := NewArticleHandler(NewIndexer(embedder, &fakeIndex{}, nil, nil))

	shouldMark, err := h.HandleMessage(context.Background(),
		[]byte(`{"title":"A","link":"https://example.com/a"}`))
	if err == nil {
		t.Fatal("expected an error when indexing fails")
	}
	if shouldMark {
		t.Error("shouldMark = true; a failed message must stay unmarked")
	}
}

func TestHandleMessageIndexesArticle(t *testing.T) {
	index := &fakeIndex{}
	h := NewArticleHandler(NewIndexer(&fakeEmbedder{}, index, nil, nil))

	shouldMark, err := h.HandleMessage(context.Background(),
		[]byte(`{"title":"A","link":"https://example.com/a","fullContent":"body"}`))
	if err != nil || !shouldMark {
		t.Fatalf("got (%v, %v); want (true, nil)", shouldMark, err)
	}
	if len(index.upserted) != 1 || index.upserted[0].Payload.Link != "https://example.com/a" {
		t.Fatalf("upserted = %+v; want the article point", index.upserted)
	}
}
