package postref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want Kind
	}{
		{"11111111-1111-1111-1111-111111111111", KindCanonicalID},
		{"d9428888-122b-11e1-b85c-61cd3cbb3210", KindCanonicalID},
		{"how-to-care-kittens-42", KindSlug},
		{"adopted_luna", KindSlug},
		{"11111111111111111111111111111111", KindSlug},                    // undashed hex is not canonical
		{"urn:uuid:11111111-1111-1111-1111-111111111111", KindSlug},       // URN form never comes from the store
		{"11111111-1111-1111-1111-11111111111g", KindSlug},                // bad hex
		{"", KindSlug},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ref))
		})
	}
}

func TestNormalizeSlug(t *testing.T) {
	assert.Equal(t, "how-to-care-kittens-42", NormalizeSlug("  How-To-Care-Kittens-42 "))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("how-to-care-kittens-42"))
	assert.True(t, ValidSlug("lost_found_update"))
	assert.False(t, ValidSlug(""))
	assert.False(t, ValidSlug("Has-Upper"))
	assert.False(t, ValidSlug("with space"))
	assert.False(t, ValidSlug("émoji"))
}
