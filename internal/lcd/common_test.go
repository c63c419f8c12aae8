package lcd

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFit(t *testing.T) {
	tt := []struct {
		name string
		msg  string
		want string
	}{
		{"empty", "", "                "},
		{"short", "GPIO20", "GPIO20          "},
		{"exact", "0123456789abcdef", "0123456789abcdef"},
		{"long", "GPIO20: 3 click sequence", "GPIO20: 3 click "},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fit(tc.msg))
		})
	}
}

func TestLineString(t *testing.T) {
	assert.Equal(t, "L1", Line1.String())
	assert.Equal(t, "L2", Line2.String())
	assert.Equal(t, "N/A", Line(0).String())
}
