package application

import (
	"math"
	"strconv"
	"strings"

	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/pkg/response"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 50
	MaxPage      = math.MaxInt32
)

// ParsePage reads page and limit query values. Empty values take the
// defaults; anything that is not an integer in range is InvalidInput.
func ParsePage(pageStr, limitStr string) (entity.Page, error) {
	p := entity.Page{Page: DefaultPage, Limit: DefaultLimit}

	if s := strings.TrimSpace(pageStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, newErr(KindInvalidInput, "Invalid page parameter")
		}
		p.Page = n
	}
	if s := strings.TrimSpace(limitStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, newErr(KindInvalidInput, "Invalid limit parameter")
		}
		p.Limit = n
	}
	if p.Page < 1 {
		return p, newErr(KindInvalidInput, "Page must be at least 1")
	}
	if p.Page > MaxPage {
		return p, newErr(KindInvalidInput, "Page is too large")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return p, newErr(KindInvalidInput, "Limit must be between 1 and 50")
	}
	return p, nil
}

// Pagination builds the response meta for a page and total.
func Pagination(p entity.Page, total int64) response.Pagination {
	return response.Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: p.Pages(total)}
}
