package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/biocatalog/pkg/logging"
	"github.com/dd0wney/biocatalog/pkg/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []MatchEntry {
	return []MatchEntry{
		{
			ArticleID:         "PMC4136787",
			ArticleTitle:      "Microgravity induces pelvic bone loss",
			TotalOSDsCompared: 500,
			MatchesFound:      3,
			OSDMatches: []Match{
				{OSDID: "OSD-379", Title: "Rodent Research 1", Similarity: 0.81},
				{OSDID: "OSD-48", Title: "Mouse femur", Similarity: 0.66},
				{OSDID: "OSD-12", Title: "Plant roots", Similarity: 0.31},
			},
		},
		{
			ArticleID:    "PMC3630201",
			ArticleTitle: "Stem cell health in spaceflight",
			OSDMatches: []Match{
				{OSDID: "OSD-7", Title: "Stem cells", Similarity: 0.7},
			},
		},
		{
			ArticleID:    "PMC1000001",
			ArticleTitle: "Radiation and the heart",
		},
	}
}

func TestNewIndexesEntries(t *testing.T) {
	c, err := New(sampleEntries(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"PMC1000001", "PMC3630201", "PMC4136787"}, c.Articles())

	entry, err := c.Entry("PMC4136787")
	require.NoError(t, err)
	assert.Len(t, entry.OSDMatches, 3)
	assert.Equal(t, "OSD-379", entry.OSDMatches[0].OSDID)

	report := c.Report()
	assert.Equal(t, 3, report.Entries)
	assert.Equal(t, 4, report.Matches)
}

func TestEntryNotFound(t *testing.T) {
	c, err := New(sampleEntries(), nil)
	require.NoError(t, err)

	_, err = c.Entry("PMC0")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry MatchEntry
	}{
		{"Missing article id", MatchEntry{ArticleTitle: "No id"}},
		{"Article id with spaces", MatchEntry{ArticleID: "PMC 1"}},
		{"Negative totals", MatchEntry{ArticleID: "PMC1", TotalOSDsCompared: -1}},
		{"Invalid dataset id", MatchEntry{ArticleID: "PMC1", OSDMatches: []Match{{OSDID: "OSD 1"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]MatchEntry{tt.entry}, nil)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestNewCleansMatches(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewJSONLogger(&buf, logging.DebugLevel)

	entries := []MatchEntry{
		{
			ArticleID: "PMC1",
			OSDMatches: []Match{
				{OSDID: "OSD-1", Similarity: 0.5},
				{OSDID: "", Similarity: 0.9},
				{OSDID: "OSD-2", Similarity: 1.4},
				{OSDID: "OSD-1", Similarity: 0.8},
				{OSDID: "OSD-1", Similarity: 0.2},
			},
		},
		{ArticleID: "PMC1", ArticleTitle: "second copy"},
	}

	c, err := New(entries, logger)
	require.NoError(t, err)

	entry, err := c.Entry("PMC1")
	require.NoError(t, err)
	require.Len(t, entry.OSDMatches, 2)
	assert.Equal(t, "OSD-1", entry.OSDMatches[0].OSDID)
	assert.Equal(t, 0.8, entry.OSDMatches[0].Similarity)
	assert.Equal(t, 1.4, entry.OSDMatches[1].Similarity, "out-of-range scores are kept for the engine to clamp")
	assert.Empty(t, entry.ArticleTitle, "first entry for an article wins")

	report := c.Report()
	assert.Equal(t, 1, report.MissingOSDID)
	assert.Equal(t, 2, report.CollapsedDuplicates)
	assert.Equal(t, 1, report.DuplicateArticles)
	assert.Equal(t, 1, report.OutOfRange)

	assert.Contains(t, buf.String(), "similarity outside [0, 1]")
	assert.Contains(t, buf.String(), "duplicate article entry ignored")
}

func TestEntriesInLoadOrder(t *testing.T) {
	c, err := New(sampleEntries(), nil)
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "PMC4136787", entries[0].ArticleID)
	assert.Equal(t, "PMC1000001", entries[2].ArticleID)

	entries[0].OSDMatches[0].Similarity = 0
	original, _ := c.Entry("PMC4136787")
	assert.Equal(t, 0.81, original.OSDMatches[0].Similarity)
}

func TestFilter(t *testing.T) {
	c, err := New(sampleEntries(), nil)
	require.NoError(t, err)

	t.Run("No filters returns everything in load order", func(t *testing.T) {
		rows := c.Filter(Query{})
		require.Len(t, rows, 3)
		assert.Equal(t, "PMC4136787", rows[0].ArticleID)
	})

	t.Run("Article id is exact", func(t *testing.T) {
		rows := c.Filter(Query{ArticleID: "PMC3630201"})
		require.Len(t, rows, 1)
		assert.Empty(t, c.Filter(Query{ArticleID: "PMC3630"}))
	})

	t.Run("Text matches id or title case-insensitively", func(t *testing.T) {
		rows := c.Filter(Query{Text: "SPACEFLIGHT"})
		require.Len(t, rows, 1)
		assert.Equal(t, "PMC3630201", rows[0].ArticleID)

		rows = c.Filter(Query{Text: "pmc4136"})
		require.Len(t, rows, 1)
	})

	t.Run("Threshold filters and sorts matches", func(t *testing.T) {
		rows := c.Filter(Query{ArticleID: "PMC4136787", Threshold: 0.6})
		require.Len(t, rows, 1)
		require.Len(t, rows[0].OSDMatches, 2)
		assert.Equal(t, 2, rows[0].MatchesFound)
		assert.Equal(t, "OSD-379", rows[0].OSDMatches[0].OSDID)

		original, _ := c.Entry("PMC4136787")
		assert.Len(t, original.OSDMatches, 3, "filtering must not modify the catalog")
	})

	t.Run("Dataset id accepts bare numbers", func(t *testing.T) {
		rows := c.Filter(Query{OSDID: "379"})
		require.Len(t, rows, 1)
		assert.Equal(t, "PMC4136787", rows[0].ArticleID)

		assert.Len(t, c.Filter(Query{OSDID: "OSD-7"}), 1)
		assert.Empty(t, c.Filter(Query{OSDID: "OSD-999"}))
	})

	t.Run("Limit caps entries", func(t *testing.T) {
		assert.Len(t, c.Filter(Query{Limit: 2}), 2)
	})
}

func TestApplyThresholdStable(t *testing.T) {
	matches := []Match{
		{OSDID: "a", Similarity: 0.7},
		{OSDID: "b", Similarity: 0.9},
		{OSDID: "c", Similarity: 0.7},
		{OSDID: "d", Similarity: 0.1},
	}
	kept := ApplyThreshold(matches, 0.7)
	ids := make([]string, len(kept))
	for i, m := range kept {
		ids[i] = m.OSDID
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestNormalizeOSDID(t *testing.T) {
	assert.Equal(t, "OSD-379", NormalizeOSDID("379"))
	assert.Equal(t, "OSD-379", NormalizeOSDID("OSD-379"))
	assert.Equal(t, "OSD-1", NormalizeOSDID(" 1 "))
	assert.Equal(t, "", NormalizeOSDID(""))
}

func TestRating(t *testing.T) {
	tests := []struct {
		similarity float64
		want       int
	}{
		{0.95, 3},
		{0.76, 3},
		{0.75, 2},
		{0.66, 2},
		{0.65, 1},
		{0.1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rating(tt.similarity), "Rating(%v)", tt.similarity)
	}
}

func TestRelatedFrom(t *testing.T) {
	entry := sampleEntries()[0]

	related := RelatedFrom(entry, 0)
	require.Len(t, related, 3)
	assert.Equal(t, "OSD-379", related[0].ID)
	assert.Equal(t, 0.81, related[0].Similarity)
	assert.Equal(t, "OSD-12", related[2].ID)

	assert.Len(t, RelatedFrom(entry, 2), 2)
	assert.Empty(t, RelatedFrom(MatchEntry{ArticleID: "x"}, 5))

	focus := Focus(entry)
	assert.Equal(t, entry.ArticleID, focus.ID)
	assert.Equal(t, entry.ArticleTitle, focus.Title)
}

type stubSource struct {
	entries []MatchEntry
	err     error
}

func (s stubSource) Name() string { return "stub" }
func (s stubSource) Type() string { return "stub" }
func (s stubSource) Load(ctx context.Context) ([]MatchEntry, error) {
	return s.entries, s.err
}

func TestLoadRecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()

	c, err := Load(context.Background(), stubSource{entries: sampleEntries()}, nil, reg)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(context.Background(), stubSource{err: errors.New("bucket gone")}, nil, reg)
	assert.ErrorContains(t, err, "bucket gone")

	var m dto.Metric
	counter, err := reg.CatalogLoadsTotal.GetMetricWithLabelValues("stub", "success")
	require.NoError(t, err)
	require.NoError(t, counter.Write(&m))
	assert.Equal(t, 1.0, m.Counter.GetValue())

	counter, err = reg.CatalogLoadsTotal.GetMetricWithLabelValues("stub", "error")
	require.NoError(t, err)
	require.NoError(t, counter.Write(&m))
	assert.Equal(t, 1.0, m.Counter.GetValue())

	require.NoError(t, reg.CatalogEntries.Write(&m))
	assert.Equal(t, 3.0, m.Gauge.GetValue())
}

func TestLoadRecordsRejectedReasons(t *testing.T) {
	var buf bytes.Buffer
	reg := metrics.NewRegistry()
	src := stubSource{entries: []MatchEntry{
		{
			ArticleID: "PMC1",
			OSDMatches: []Match{
				{OSDID: "OSD-1", Similarity: 1.2},
				{OSDID: "OSD-2", Similarity: -0.1},
				{OSDID: "", Similarity: 0.5},
				{OSDID: "OSD-3", Similarity: 0.4},
				{OSDID: "OSD-3", Similarity: 0.3},
			},
		},
		{ArticleID: "PMC1"},
	}}

	_, err := Load(context.Background(), src, logging.NewJSONLogger(&buf, logging.InfoLevel), reg)
	require.NoError(t, err)

	for reason, want := range map[string]float64{
		"out_of_range":      2,
		"missing_osd_id":    1,
		"duplicate_osd_id":  1,
		"duplicate_article": 1,
	} {
		var m dto.Metric
		counter, err := reg.CatalogRecordsRejected.GetMetricWithLabelValues(reason)
		require.NoError(t, err)
		require.NoError(t, counter.Write(&m))
		assert.Equal(t, want, m.Counter.GetValue(), reason)
	}
	assert.Contains(t, buf.String(), `"out_of_range":2`)
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()

	src, err := OpenSource(ctx, "/data/all_matches.json", SourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "file:/data/all_matches.json", src.Name())

	src, err = OpenSource(ctx, "file:///data/all_matches.json.gz", SourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, "file:/data/all_matches.json.gz", src.Name())

	_, err = OpenSource(ctx, "ftp://example.org/x.json", SourceOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = OpenSource(ctx, "s3://bucket-only", SourceOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestFileSourceEncodings(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"all_matches.json", "all_matches.json.gz", "all_matches.json.sz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, Encode(f, EncodingFor(name), sampleEntries()))
			require.NoError(t, f.Close())

			entries, err := NewFileSource(path).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, sampleEntries(), entries)
		})
	}
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing.json")).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0o644))
	_, err = NewFileSource(bad).Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(bad).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeOriginalShape(t *testing.T) {
	raw := `[{"article_id":"PMC1","article_title":"T","total_osds_compared":10,"matches_found":1,
		"osd_matches":[{"osd_id":"OSD-5","title":"D","similarity":0.64,"confidence":"medium","method":"tfidf","url":"https://osdr.nasa.gov/OSD-5"}]}]`

	entries, err := Decode(strings.NewReader(raw), EncodingJSON)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	m := entries[0].OSDMatches[0]
	assert.Equal(t, "OSD-5", m.OSDID)
	assert.Equal(t, "medium", m.Confidence)
	assert.Equal(t, "tfidf", m.Method)
	assert.Equal(t, "https://osdr.nasa.gov/OSD-5", m.URL)
}
