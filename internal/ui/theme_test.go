package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for current, want := range tests {
		if got := NextTheme(current); got != want {
			t.Fatalf("NextTheme(%s) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemesColorEveryStoreEvent(t *testing.T) {
	events := []string{"store.create", "store.set", "store.notify", "store.subscribe", "store.unsubscribe", "store.dispatch"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, ev := range events {
			if th.EventColors[ev] == "" {
				t.Fatalf("%s theme has no color for %s", name, ev)
			}
		}
	}
}

func TestStylesFallBackToMuted(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles()

	if got := styles.EventStyle("store.unknown").GetBackground(); got != styles.EventStyle("").GetBackground() {
		t.Fatalf("EventStyle(unknown) background = %v, want muted fallback", got)
	}
	if got, want := styles.LevelStyle(" warn ").GetForeground(), styles.LevelStyle("WARN").GetForeground(); got != want {
		t.Fatalf("LevelStyle(\" warn \") = %v, want %v", got, want)
	}
}
