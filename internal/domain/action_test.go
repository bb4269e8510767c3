package domain

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Action
		wantErr bool
	}{
		{
			name:  "backstory",
			token: "backstory",
			want:  Action{Kind: ActionBackstory},
		},
		{
			name:  "subscribe",
			token: "subscribe",
			want:  Action{Kind: ActionSubscribe},
		},
		{
			name:  "clue with day",
			token: "clue_5",
			want:  Action{Kind: ActionClue, Day: 5},
		},
		{
			name:  "question with day",
			token: "question_12",
			want:  Action{Kind: ActionQuestion, Day: 12},
		},
		{
			name:  "text with day",
			token: "text_21",
			want:  Action{Kind: ActionText, Day: 21},
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "unknown kind",
			token:   "prize_3",
			wantErr: true,
		},
		{
			name:    "day is not a number",
			token:   "clue_abc",
			wantErr: true,
		},
		{
			name:    "bare kind without day",
			token:   "clue",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseAction(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
		})
	}
}

func TestAction_Token_RoundTrip(t *testing.T) {
	actions := []Action{
		{Kind: ActionBackstory},
		{Kind: ActionSubscribe},
		{Kind: ActionClue, Day: 1},
		{Kind: ActionQuestion, Day: 9},
		{Kind: ActionText, Day: 21},
	}

	for _, a := range actions {
		got, err := ParseAction(a.Token())
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", a.Token(), err)
		}
		if got != a {
			t.Errorf("round trip of %+v = %+v", a, got)
		}
	}
}
