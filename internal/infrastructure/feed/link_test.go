package feed

import "testing"

func TestResolveLink(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"google alerts indirection",
			"https://www.google.com/url?rct=j&sa=t&url=https://example.org/story&ct=ga",
			"https://example.org/story",
		},
		{
			"plain link untouched",
			"https://example.org/direct",
			"https://example.org/direct",
		},
		{
			"non-http wrapped value ignored",
			"https://example.org/redir?url=javascript:alert(1)",
			"https://example.org/redir?url=javascript:alert(1)",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveLink(tc.in); got != tc.want {
				t.Fatalf("resolveLink(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsVideoHost(t *testing.T) {
	t.Parallel()

	videos := []string{
		"https://www.youtube.com/watch?v=abc",
		"https://youtu.be/abc",
		"https://player.vimeo.com/video/123",
	}
	for _, link := range videos {
		if !isVideoHost(link) {
			t.Fatalf("%s must be detected as video host", link)
		}
	}

	articles := []string{
		"https://example.org/youtube-history-article",
		"https://notyoutube.com/story",
	}
	for _, link := range articles {
		if isVideoHost(link) {
			t.Fatalf("%s must not be detected as video host", link)
		}
	}
}
