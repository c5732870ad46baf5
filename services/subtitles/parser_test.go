package subtitles

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "WebVTT payload",
			raw: "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nHello there\n\n00:00:02.000 --> 00:00:04.000\ngeneral Kenobi\n",
			want: "Hello there general Kenobi",
		},
		{
			name: "SRT payload with cue indices",
			raw:  "1\n00:00:00,000 --> 00:00:02,000\nFirst line\n\n2\n00:00:02,000 --> 00:00:04,000\nSecond line\n",
			want: "First line Second line",
		},
		{
			name: "Markup and metadata lines stripped",
			raw:  "WEBVTT Kind: captions\n<c>styled</c>\n[Music]\nactual words\n",
			want: "actual words",
		},
		{
			name: "Whitespace-padded lines trimmed",
			raw:  "  padded text  \n\t\n",
			want: "padded text",
		},
		{
			name:    "Only timing lines",
			raw:     "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\n",
			wantErr: true,
		},
		{
			name:    "Empty payload",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	raw := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nsome clean text already\n"

	once, err := Parse(raw)
	if err != nil {
		t.Fatalf("first Parse() error = %v", err)
	}

	twice, err := Parse(once)
	if err != nil {
		t.Fatalf("second Parse() error = %v", err)
	}

	if once != twice {
		t.Errorf("Parse() not idempotent: %q != %q", once, twice)
	}
}
