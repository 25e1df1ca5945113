package handlers

import (
	"fmt"
	"strconv"
)

// maxPageLimit bounds the page size so page*limit arithmetic stays far away
// from integer overflow.
const maxPageLimit = 100

func parsePaginationParams(pageStr, limitStr string) (int, int, error) {
	page := 1
	limit := 20

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page: %q", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			return 0, 0, fmt.Errorf("invalid limit: %q", limitStr)
		}
		if l > maxPageLimit {
			l = maxPageLimit
		}
		limit = l
	}

	return page, limit, nil
}

// pageWindow maps a page onto [start, end) within total. Pages beyond the
// end, including ones whose offset arithmetic overflowed, come back empty.
func pageWindow(page, limit, total int) (int, int) {
	start := (page - 1) * limit
	if start < 0 || start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
