package judge

import "testing"

type verdictPayload struct {
	IsHeading  bool    `json:"is_heading"`
	Confidence float64 `json:"confidence"`
	LevelGuess int     `json:"level_guess"`
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    verdictPayload
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"is_heading": true, "confidence": 0.9, "level_guess": 2}`,
			want:    verdictPayload{IsHeading: true, Confidence: 0.9, LevelGuess: 2},
		},
		{
			name: "json fence",
			content: "Here is my analysis:\n```json\n" +
				`{"is_heading": true, "confidence": 0.8, "level_guess": 1}` + "\n```\nDone.",
			want: verdictPayload{IsHeading: true, Confidence: 0.8, LevelGuess: 1},
		},
		{
			name:    "bare fence",
			content: "```\n{\"is_heading\": false, \"confidence\": 0.2, \"level_guess\": 0}\n```",
			want:    verdictPayload{IsHeading: false, Confidence: 0.2, LevelGuess: 0},
		},
		{
			name:    "trailing comma",
			content: `{"is_heading": true, "confidence": 0.7, "level_guess": 3,}`,
			want:    verdictPayload{IsHeading: true, Confidence: 0.7, LevelGuess: 3},
		},
		{
			name:    "python none literal",
			content: `{"is_heading": true, "confidence": 0.7, "level_guess": None}`,
			want:    verdictPayload{IsHeading: true, Confidence: 0.7, LevelGuess: 0},
		},
		{
			name:    "not json at all",
			content: "I cannot answer that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON[verdictPayload](tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ExtractJSON() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractJSONIntoSlicePayload(t *testing.T) {
	content := "```json\n" + `{"headings": [{"text": "一", "level": 1}, {"text": "二", "level": 2},]}` + "\n```"
	got, err := ExtractJSON[levelResponse](content)
	if err != nil {
		t.Fatalf("ExtractJSON() unexpected error: %v", err)
	}
	if len(got.Headings) != 2 {
		t.Fatalf("ExtractJSON() parsed %d headings, want 2", len(got.Headings))
	}
	if got.Headings[1].Text != "二" || got.Headings[1].Level != 2 {
		t.Errorf("ExtractJSON()[1] = %+v, want 二/2", got.Headings[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	got := truncate(string(long), 200)
	if len(got) != 200 {
		t.Errorf("truncate() len = %d, want 200", len(got))
	}
}
