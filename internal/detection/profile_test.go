package detection

import (
	"reflect"
	"testing"
)

func TestProfile_Rows(t *testing.T) {
	m := createPageMask(t, 6, 10, TextIsHigh, box(1, 0, 1, 9), box(3, 0, 3, 4))
	got := Profile(m, box(0, 0, 5, 9), Rows, TextIsHigh)
	want := []float64{0, 1, 0, 0.5, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestProfile_ColumnsWithinBand(t *testing.T) {
	// Ink outside the band must not count.
	m := createPageMask(t, 10, 6, TextIsLow, box(2, 1, 5, 1), box(0, 4, 9, 4))
	got := Profile(m, box(2, 0, 5, 5), Columns, TextIsLow)
	want := []float64{0, 1, 0, 0, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestProfile_PolarityMatters(t *testing.T) {
	m := createPageMask(t, 4, 4, TextIsHigh, box(0, 0, 0, 3))
	high := Profile(m, box(0, 0, 3, 3), Rows, TextIsHigh)
	low := Profile(m, box(0, 0, 3, 3), Rows, TextIsLow)
	for i := range high {
		if high[i]+low[i] != 1 {
			t.Errorf("index %d: densities %v and %v should sum to 1", i, high[i], low[i])
		}
	}
}

func TestRuns(t *testing.T) {
	tests := []struct {
		name    string
		profile []float64
		offset  int
		params  RunParams
		want    []Interval
	}{
		{
			"single run closed by gap",
			[]float64{0, 1, 1, 1, 1, 1, 0},
			0,
			RunParams{DensityThreshold: 0.1, MinRun: 5},
			[]Interval{{1, 5}},
		},
		{
			"short run is noise",
			[]float64{1, 1, 0, 1, 1, 1, 0},
			0,
			RunParams{DensityThreshold: 0.5, MinRun: 3},
			[]Interval{{3, 5}},
		},
		{
			"threshold is inclusive",
			[]float64{0.1, 0.1, 0.09},
			0,
			RunParams{DensityThreshold: 0.1, MinRun: 2},
			[]Interval{{0, 1}},
		},
		{
			"single gap breaks the run",
			[]float64{1, 1, 1, 0, 1, 1, 1, 0},
			0,
			RunParams{DensityThreshold: 0.5, MinRun: 4},
			[]Interval{},
		},
		{
			"offset shifts intervals",
			[]float64{0, 1, 1, 0, 1, 0},
			100,
			RunParams{DensityThreshold: 0.5, MinRun: 1},
			[]Interval{{101, 102}, {104, 104}},
		},
		{
			"trailing run closed",
			[]float64{0, 0, 1, 1, 1},
			10,
			RunParams{DensityThreshold: 0.5, MinRun: 2, Trailing: TrailingRunClose},
			[]Interval{{12, 14}},
		},
		{
			"trailing run discarded",
			[]float64{0, 0, 1, 1, 1},
			10,
			RunParams{DensityThreshold: 0.5, MinRun: 2, Trailing: TrailingRunDiscard},
			[]Interval{},
		},
		{
			"trailing run too short",
			[]float64{0, 1, 1, 0, 1},
			0,
			RunParams{DensityThreshold: 0.5, MinRun: 2, Trailing: TrailingRunClose},
			[]Interval{{1, 2}},
		},
		{
			"empty profile",
			nil,
			0,
			RunParams{DensityThreshold: 0.5, MinRun: 1},
			[]Interval{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Runs(tt.profile, tt.offset, tt.params)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegment_Rows(t *testing.T) {
	m := createPageMask(t, 100, 300, TextIsLow, box(10, 0, 14, 299))
	got := Segment(m, box(0, 0, 99, 299), Rows, TextIsLow, RunParams{DensityThreshold: 0.1, MinRun: 5})
	want := []Interval{{10, 14}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSegment_ColumnsUseBandOffset(t *testing.T) {
	m := createPageMask(t, 50, 100, TextIsHigh, box(20, 30, 24, 39))
	got := Segment(m, box(20, 25, 24, 60), Columns, TextIsHigh, RunParams{DensityThreshold: 0.001, MinRun: 1})
	want := []Interval{{30, 39}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSegment_NonOverlappingOrdered(t *testing.T) {
	for seed := 0; seed < 10; seed++ {
		m := createStripedMask(t, 120, 200, seed)
		page, _ := m.Bounds()
		for _, axis := range []Axis{Rows, Columns} {
			ivs := Segment(m, page, axis, TextIsLow, RunParams{DensityThreshold: 0.05, MinRun: 2})
			for i, iv := range ivs {
				if iv.End < iv.Start {
					t.Errorf("seed %d %v: empty interval %v", seed, axis, iv)
				}
				if i > 0 && iv.Start <= ivs[i-1].End {
					t.Errorf("seed %d %v: interval %v overlaps %v", seed, axis, iv, ivs[i-1])
				}
			}
		}
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in      string
		want    Axis
		wantErr bool
	}{
		{"rows", Rows, false},
		{"Row", Rows, false},
		{"columns", Columns, false},
		{"cols", Columns, false},
		{"diagonal", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAxis(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTrailingRunPolicy_Text(t *testing.T) {
	var p TrailingRunPolicy
	if err := p.UnmarshalText([]byte("discard")); err != nil || p != TrailingRunDiscard {
		t.Errorf("UnmarshalText(discard): %v, %v", p, err)
	}
	if err := p.UnmarshalText([]byte("Close")); err != nil || p != TrailingRunClose {
		t.Errorf("UnmarshalText(Close): %v, %v", p, err)
	}
	if err := p.UnmarshalText([]byte("keep")); err == nil {
		t.Error("UnmarshalText should reject unknown policies")
	}
	b, err := TrailingRunDiscard.MarshalText()
	if err != nil || string(b) != "discard" {
		t.Errorf("MarshalText: %q, %v", b, err)
	}
}
