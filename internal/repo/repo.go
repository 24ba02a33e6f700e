// Package repo holds the gorm-backed document-store adapters. The adapters
// own id assignment (uuid on first persist) and audit stamping; service code
// never touches either.
package repo

import (
	"fmt"

	"storefront-api/internal/domain"
)

// orderExpr maps a page request onto a sanctioned sort column. Unknown sort
// fields fall back to created_at so callers cannot inject raw SQL.
func orderExpr(pr domain.PageRequest, allowed map[string]string) string {
	col, ok := allowed[pr.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "asc"
	if pr.Desc || pr.SortBy == "" {
		dir = "desc"
	}
	return fmt.Sprintf("%s %s", col, dir)
}
