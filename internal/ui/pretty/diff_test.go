package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sokki/internal/ui/pretty"
	"github.com/yaklabco/sokki/pkg/textedit"
)

func TestFormatDiff(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	diff := textedit.GenerateDiff("notes.md", "# Title\n\nold line\n", "# Title\n\nnew line\n")
	got := styles.FormatDiff(diff)

	assert.Equal(t, diff.String(), got, "plain styles reproduce the unified diff")
	assert.Contains(t, got, "--- a/notes.md\n+++ b/notes.md\n")
	assert.Contains(t, got, "-old line\n+new line\n")
}

func TestFormatDiff_NoChanges(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Empty(t, styles.FormatDiff(nil))
	assert.Empty(t, styles.FormatDiff(textedit.GenerateDiff("a.md", "same\n", "same\n")))
}

func TestFormatDiffStat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		modified string
		want     string
	}{
		{
			name:     "no changes",
			original: "a\n",
			modified: "a\n",
			want:     "no changes\n",
		},
		{
			name:     "one replacement",
			original: "a\nb\n",
			modified: "a\nc\n",
			want:     "doc.md: 1 addition, 1 deletion\n",
		},
		{
			name:     "insertions only",
			original: "a\n",
			modified: "a\nb\nc\n",
			want:     "doc.md: 2 additions, 0 deletions\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			diff := textedit.GenerateDiff("doc.md", testCase.original, testCase.modified)
			assert.Equal(t, testCase.want, pretty.NewStyles(false).FormatDiffStat(diff))
		})
	}
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	assert.Equal(t, "doc.md", styles.FormatFileHeader("doc.md", false))
	assert.Equal(t, "doc.md (modified)", styles.FormatFileHeader("doc.md", true))
}
