package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnnovate/academy/internal/domain/entity"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		limit   string
		want    entity.Page
		wantMsg string
	}{
		{name: "defaults", want: entity.Page{Page: 1, Limit: 12}},
		{name: "explicit", page: "3", limit: "50", want: entity.Page{Page: 3, Limit: 50}},
		{name: "page zero", page: "0", wantMsg: "Page must be at least 1"},
		{name: "negative page", page: "-2", wantMsg: "Page must be at least 1"},
		{name: "limit too high", limit: "51", wantMsg: "Limit must be between 1 and 50"},
		{name: "limit zero", limit: "0", wantMsg: "Limit must be between 1 and 50"},
		{name: "not a number", page: "two", wantMsg: "Invalid page parameter"},
		{name: "largest page", page: "2147483647", limit: "50", want: entity.Page{Page: 2147483647, Limit: 50}},
		{name: "page past int32", page: "2147483648", wantMsg: "Page is too large"},
		{name: "page that wraps skip", page: "4611686018427387905", limit: "2", wantMsg: "Page is too large"},
		{name: "page beyond int64", page: "99999999999999999999", wantMsg: "Invalid page parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.page, tt.limit)
			if tt.wantMsg != "" {
				require.ErrorIs(t, err, ErrInvalidInput)
				assert.Equal(t, tt.wantMsg, err.(*Error).Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPagination(t *testing.T) {
	p := Pagination(entity.Page{Page: 2, Limit: 12}, 25)
	assert.Equal(t, 2, p.Page)
	assert.EqualValues(t, 25, p.Total)
	assert.EqualValues(t, 3, p.Pages)

	assert.EqualValues(t, 0, Pagination(entity.Page{Page: 1, Limit: 12}, 0).Pages)
}
