package probe

import "testing"

func TestParseWMClass(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		class    string
		instance string
	}{
		{
			name:     "standard",
			out:      `WM_CLASS(STRING) = "brave-browser", "Brave-browser"`,
			class:    "Brave-browser",
			instance: "brave-browser",
		},
		{
			name:     "single value",
			out:      `WM_CLASS(STRING) = "ghostty"`,
			class:    "ghostty",
			instance: "ghostty",
		},
		{
			name:     "garbage",
			out:      `WM_CLASS: not found`,
			class:    "unknown",
			instance: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, instance := parseWMClass(tt.out)
			if class != tt.class {
				t.Errorf("class = %q, want %q", class, tt.class)
			}
			if instance != tt.instance {
				t.Errorf("instance = %q, want %q", instance, tt.instance)
			}
		})
	}
}
