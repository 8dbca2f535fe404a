package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   OffsetRequest
		want OffsetRequest
	}{
		{name: "defaults", in: OffsetRequest{}, want: OffsetRequest{Page: 1, Size: PageDefaultSize}},
		{name: "kept", in: OffsetRequest{Page: 3, Size: 25}, want: OffsetRequest{Page: 3, Size: 25}},
		{name: "capped", in: OffsetRequest{Page: 1, Size: 1000}, want: OffsetRequest{Page: 1, Size: PageMaxSize}},
		{name: "negative", in: OffsetRequest{Page: -2, Size: -1}, want: OffsetRequest{Page: 1, Size: PageDefaultSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestNewOffsetResult(t *testing.T) {
	r := NewOffsetResult([]int{1, 2}, 5, 1, 2)
	assert.True(t, r.HasMore)

	r = NewOffsetResult([]int{5}, 5, 3, 2)
	assert.False(t, r.HasMore)

	r = NewOffsetResult[int](nil, 0, 1, 10)
	assert.NotNil(t, r.Items)
}
