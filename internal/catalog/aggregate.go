package catalog

import (
	"sort"

	"github.com/samber/lo"

	apperrors "github.com/amaumene/venusplay/internal/errors"
	"github.com/amaumene/venusplay/internal/models"
)

// ValidatePage rejects non-positive page numbers.
func ValidatePage(page int) error {
	if page < 1 {
		return apperrors.NewClientError("page must be a positive integer")
	}
	return nil
}

// Paginate returns the 1-indexed page of items. A page past the end is an
// empty window, not an error.
func Paginate[T any](items []T, page, size int) (models.Page[T], error) {
	if err := ValidatePage(page); err != nil {
		return models.Page[T]{}, err
	}
	if size < 1 {
		return models.Page[T]{}, apperrors.NewClientError("page size must be a positive integer")
	}

	data := []T{}
	// Compare before multiplying so huge page numbers cannot overflow.
	if page-1 <= len(items)/size {
		start := (page - 1) * size
		data = lo.Slice(items, start, start+size)
	}
	if data == nil {
		data = []T{}
	}

	return models.Page[T]{
		Data:    data,
		Page:    page,
		PerPage: size,
		Total:   len(items),
	}, nil
}

// MergeSorted concatenates movies and series and orders them by title.
// Ordering is byte-wise, so empty titles come first.
func MergeSorted(movies, series []models.CatalogItem) []models.CatalogItem {
	merged := make([]models.CatalogItem, 0, len(movies)+len(series))
	merged = append(merged, movies...)
	merged = append(merged, series...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Title < merged[j].Title
	})
	return merged
}

// Interleave alternates one movie and one series, then appends whatever
// remains of the longer collection.
func Interleave(movies, series []models.CatalogItem) []models.CatalogItem {
	out := lo.Interleave(movies, series)
	if out == nil {
		out = []models.CatalogItem{}
	}
	return out
}

// DistinctGenres collects the sorted set of non-empty primary genres.
func DistinctGenres(collections ...[]models.Record) []string {
	records := lo.Flatten(collections)
	genres := lo.Map(records, func(r models.Record, _ int) string {
		return PrimaryGenre(r.String("genre"))
	})
	genres = lo.Uniq(lo.Compact(genres))
	sort.Strings(genres)
	if genres == nil {
		genres = []string{}
	}
	return genres
}
