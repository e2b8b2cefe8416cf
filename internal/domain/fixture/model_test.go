package fixture

import "testing"

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status string
		want   Phase
	}{
		{status: "", want: PhaseUpcoming},
		{status: "scheduled", want: PhaseUpcoming},
		{status: "TIMED", want: PhaseUpcoming},
		{status: "IN_PLAY", want: PhaseLive},
		{status: "paused", want: PhaseLive},
		{status: "FINISHED", want: PhaseFinished},
		{status: "awarded", want: PhaseFinished},
		{status: "POSTPONED", want: PhaseCancelled},
		{status: "SUSPENDED", want: PhaseCancelled},
	}

	for _, tc := range cases {
		if got := ClassifyStatus(tc.status); got != tc.want {
			t.Fatalf("ClassifyStatus(%q): got=%s want=%s", tc.status, got, tc.want)
		}
	}

	f := Fixture{Status: "ft"}
	if f.Phase() != PhaseFinished {
		t.Fatalf("Fixture.Phase()=%s want finished", f.Phase())
	}
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		home    int
		away    int
		wantErr bool
	}{
		{in: "2-1", home: 2, away: 1},
		{in: " 0 - 3 ", home: 0, away: 3},
		{in: "1:1", home: 1, away: 1},
		{in: "-1", wantErr: true},
		{in: "a-b", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			home, away, err := ParseResult(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResult(%q) err=%v wantErr=%v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (home != tt.home || away != tt.away) {
				t.Fatalf("ParseResult(%q)=%d-%d want %d-%d", tt.in, home, away, tt.home, tt.away)
			}
		})
	}

	if got := FormatResult(3, 0); got != "3-0" {
		t.Fatalf("FormatResult=%q", got)
	}
}
