package application

import (
	"context"
	"sort"
	"strconv"
	"strings"

	repo "github.com/RaiderT63/foodgram/internal/domain/repository"
)

// ShoppingListFilename is the suggested download name for the export.
const ShoppingListFilename = "shopping_list.txt"

// ShoppingListService renders the cart as an aggregated plain-text list.
type ShoppingListService struct {
	Memberships repo.MembershipRepository
}

type aggregatedLine struct {
	Name  string
	Unit  string
	Total int
}

// Export sums the line items of every recipe in the user's cart. Lines are
// grouped by the ingredient's display identity (name plus measurement
// unit), so the same ingredient appearing in three recipes becomes one
// line with the summed amount. An empty cart exports a header-only list.
func (s *ShoppingListService) Export(ctx context.Context, userID string) (string, error) {
	lines, err := s.Memberships.CartLines(ctx, userID)
	if err != nil {
		return "", err
	}

	type key struct{ name, unit string }
	totals := make(map[key]int, len(lines))
	for _, l := range lines {
		totals[key{l.IngredientName, l.MeasurementUnit}] += l.Amount
	}

	agg := make([]aggregatedLine, 0, len(totals))
	for k, sum := range totals {
		agg = append(agg, aggregatedLine{Name: k.name, Unit: k.unit, Total: sum})
	}
	sort.Slice(agg, func(i, j int) bool {
		if agg[i].Name != agg[j].Name {
			return agg[i].Name < agg[j].Name
		}
		return agg[i].Unit < agg[j].Unit
	})

	var b strings.Builder
	b.WriteString("Shopping list:\n")
	for _, a := range agg {
		b.WriteString(a.Name)
		b.WriteString(" (")
		b.WriteString(a.Unit)
		b.WriteString(") - ")
		b.WriteString(strconv.Itoa(a.Total))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
