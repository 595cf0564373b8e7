package media

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want Kind
	}{
		{"book/01.jpg", KindPrimary},
		{"BOOK/01.jpg", KindPrimary},
		{"book\\01.jpg", KindPrimary},
		{"/book/01.jpg", KindPrimary},
		{"polas/a.jpg", KindSupplementary},
		{"Snaps/a.jpg", KindSupplementary},
		{"bookish/a.jpg", KindOther},
		{"extra/book/a.jpg", KindOther},
		{"a.jpg", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Bucket(tt.path, DefaultPrefixes))
		})
	}
}

func TestBucket_CustomPrefixes(t *testing.T) {
	t.Parallel()
	prefixes := Prefixes{Primary: []string{"Portfolio\\"}, Supplementary: []string{"digitals/"}}
	assert.Equal(t, KindPrimary, Bucket("portfolio/1.jpg", prefixes))
	assert.Equal(t, KindSupplementary, Bucket("DIGITALS/1.jpg", prefixes))
	assert.Equal(t, KindOther, Bucket("book/1.jpg", prefixes))
}

func TestOrder(t *testing.T) {
	t.Parallel()
	items := []Item{
		{RelativePath: "snaps/2.jpg", URL: "u-s2"},
		{RelativePath: "book/10.jpg", URL: "u-b10"},
		{RelativePath: "misc.jpg", URL: "u-misc"},
		{RelativePath: "book/2.jpg", URL: "u-b2"},
		{RelativePath: "polas/1.jpg", URL: "u-p1"},
		{RelativePath: "book/1.jpg", URL: ""},
	}

	tests := []struct {
		name  string
		hints []string
		want  []string
	}{
		{"buckets and natural order", nil, []string{"u-b2", "u-b10", "u-p1", "u-s2", "u-misc"}},
		{"hints first", []string{"misc", "10"}, []string{"u-misc", "u-b10", "u-b2", "u-p1", "u-s2"}},
		{"unknown and repeated hints", []string{"nope", "2", "2", "2"}, []string{"u-b2", "u-s2", "u-b10", "u-p1", "u-misc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Order(items, tt.hints, DefaultPrefixes))
		})
	}
}

func TestOrder_URLFallbackKey(t *testing.T) {
	t.Parallel()
	items := []Item{
		{URL: "https://cdn.example.com/x/a.jpg"},
		{URL: "https://cdn.example.com/x/b.jpg"},
	}
	assert.Equal(t,
		[]string{"https://cdn.example.com/x/b.jpg", "https://cdn.example.com/x/a.jpg"},
		Order(items, []string{"b"}, DefaultPrefixes))
}

func TestOrder_Permutation(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(42))
	folders := []string{"book/", "polas/", "snaps/", "other/", ""}

	for run := 0; run < 50; run++ {
		n := r.Intn(20)
		items := make([]Item, 0, n)
		want := []string{}
		for i := 0; i < n; i++ {
			url := fmt.Sprintf("https://cdn.example.com/%d-%d.jpg", run, i)
			items = append(items, Item{
				RelativePath: fmt.Sprintf("%s%d.jpg", folders[r.Intn(len(folders))], r.Intn(5)),
				URL:          url,
			})
			want = append(want, url)
		}
		hints := []string{}
		for i := r.Intn(8); i > 0; i-- {
			hints = append(hints, fmt.Sprint(r.Intn(6)))
		}

		got := Order(items, hints, DefaultPrefixes)
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got)
	}
}

func TestOrder_Deterministic(t *testing.T) {
	t.Parallel()
	items := []Item{
		{RelativePath: "book/b.jpg", URL: "u2"},
		{RelativePath: "book/A.jpg", URL: "u1"},
		{RelativePath: "book/a.jpg", URL: "u3"},
	}
	first := Order(items, nil, DefaultPrefixes)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Order(items, nil, DefaultPrefixes))
	}
	// Case-insensitive equal keys keep input order.
	assert.Equal(t, []string{"u1", "u3", "u2"}, first)
}

func TestPreserveOrder(t *testing.T) {
	t.Parallel()
	urls := []string{"https://new.example.com/a.jpg", "https://new.example.com/b.jpg", "https://new.example.com/c.jpg"}
	current := []string{"https://old.example.com/c.JPG", "https://old.example.com/gone.jpg", "https://old.example.com/a.jpg"}

	assert.Equal(t,
		[]string{"https://new.example.com/c.jpg", "https://new.example.com/a.jpg", "https://new.example.com/b.jpg"},
		PreserveOrder(urls, current))
	assert.Equal(t, urls, PreserveOrder(urls, nil))
}

func TestCover(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Cover(nil))
	assert.Equal(t, "a", Cover([]string{"a", "b"}))
}
