package api

import "testing"

func TestDeriveDisplayName(t *testing.T) {
	cases := []struct {
		fileName string
		want     string
	}{
		{"episode.mp3", "Episode"},
		{"season-2_finale.mp3", "Season 2 Finale"},
		{"my.show.ep01.flac", "My Show Ep01"},
		{"INTERVIEW WITH GUEST.wav", "Interview With Guest"},
		{"---.mp3", "---.mp3"},
	}
	for _, tc := range cases {
		if got := deriveDisplayName(tc.fileName); got != tc.want {
			t.Errorf("deriveDisplayName(%q) = %q, want %q", tc.fileName, got, tc.want)
		}
	}
}
