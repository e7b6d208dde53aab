// internal/app/system/htmlsanitize/htmlsanitize_test.go

package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitizeStripsActiveContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "script-only comment collapses to nothing",
			input: `<script>document.location='https://evil.example'</script>`,
			want:  "",
		},
		{
			name:  "event handler stripped from discussion body",
			input: `<p onclick="steal()">Meeting notes from Tuesday</p>`,
			want:  `<p>Meeting notes from Tuesday</p>`,
		},
		{
			name:  "img onerror stripped, src kept",
			input: `<img src="https://example.com/garden.jpg" onerror="x()">`,
			want:  `<img src="https://example.com/garden.jpg">`,
		},
		{
			name:  "javascript href dropped",
			input: `<a href="javascript:alert(1)">agenda</a>`,
			want:  `agenda`,
		},
		{
			name:  "iframe removed from action description",
			input: `Bring tools.<iframe src="https://evil.example"></iframe>`,
			want:  `Bring tools.`,
		},
		{
			name:  "stray angle brackets escaped, not eaten",
			input: "we need 5 < 10 volunteers",
			want:  "we need 5 &lt; 10 volunteers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeKeepsEditorFormatting(t *testing.T) {
	body := `<p>Vote results: <mark>motion passed</mark>, <u>13 for</u>, <s>2 against</s></p>` +
		`<table class="results"><tr><th colspan="2">Totals</th></tr><tr><td style="text-align:right">15</td><td>votes</td></tr></table>`

	got := Sanitize(body)
	for _, keep := range []string{"<mark>", "<u>", "<s>", `colspan="2"`, `class="results"`, `style="text-align:right"`} {
		if !strings.Contains(got, keep) {
			t.Errorf("Sanitize dropped %s: %q", keep, got)
		}
	}
}

func TestSanitizeLinksGetNoFollow(t *testing.T) {
	got := Sanitize(`<a href="https://example.com/minutes">last month's minutes</a>`)
	if !strings.Contains(got, `href="https://example.com/minutes"`) {
		t.Errorf("safe href dropped: %q", got)
	}
	if !strings.Contains(got, `rel="nofollow"`) {
		t.Errorf("rel=nofollow not added to external link: %q", got)
	}
}
