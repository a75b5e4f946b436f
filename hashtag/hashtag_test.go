package hashtag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"no tags", "just some text", nil},
		{"single tag", "save the #bees", []string{"bees"}},
		{"multiple tags", "#bees and #honey forever", []string{"bees", "honey"}},
		{"lowercased", "#Bees #BEES", []string{"bees"}},
		{"dedup keeps first order", "#honey #bees #honey", []string{"honey", "bees"}},
		{"underscores and digits", "#make_the_change2024", []string{"make_the_change2024"}},
		{"bare hash ignored", "# not a tag", nil},
		{"punctuation terminates", "#bees, #honey!", []string{"bees", "honey"}},
		{"adjacent hashes", "##bees", []string{"bees"}},
		{"unicode letters", "#abeilles élevées #miel", []string{"abeilles", "miel"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.content))
		})
	}
}
