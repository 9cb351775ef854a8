// Package catalog turns raw provider records into the normalized items,
// seasons and episodes served to clients.
package catalog

import (
	"regexp"
	"strings"

	"github.com/samber/mo"

	"github.com/amaumene/venusplay/internal/constants"
	"github.com/amaumene/venusplay/internal/models"
)

var yearSuffix = regexp.MustCompile(`\s*\(\d{4}\)$`)

// CleanTitle trims t and drops one trailing " (YYYY)" suffix.
func CleanTitle(t string) string {
	return yearSuffix.ReplaceAllString(strings.TrimSpace(t), "")
}

// CoverURL resolves a cover-class artwork path.
func CoverURL(path string) string {
	return resolveImage(path, constants.CoverImageBase)
}

// BannerURL resolves a banner-class artwork path.
func BannerURL(path string) string {
	return resolveImage(path, constants.BannerImageBase)
}

func resolveImage(path, base string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return base + path
}

// PrimaryGenre keeps the first entry of a "A, B" or "A / B" genre list.
func PrimaryGenre(g string) string {
	g, _, _ = strings.Cut(g, ",")
	g, _, _ = strings.Cut(g, "/")
	return strings.TrimSpace(g)
}

// backdrop picks the first backdrop from a list or a comma-joined string.
func backdrop(r models.Record) string {
	switch v := r.Value("backdrop_path").(type) {
	case []interface{}:
		for _, elem := range v {
			if s := strings.TrimSpace(models.Stringify(elem)); s != "" {
				return s
			}
		}
	case string:
		first, _, _ := strings.Cut(v, ",")
		return strings.TrimSpace(first)
	}
	return ""
}

// bannerSource applies the banner fallback chain: backdrop first, then the
// record's own cover field.
func bannerSource(r models.Record, coverKeys ...string) string {
	if b := backdrop(r); b != "" {
		return b
	}
	return r.First(coverKeys...)
}

func synopsis(r models.Record) mo.Option[string] {
	if plot := strings.TrimSpace(r.String("plot")); plot != "" {
		return mo.Some(plot)
	}
	return mo.None[string]()
}

// releaseYear returns the leading four characters of a release date.
func releaseYear(r models.Record) string {
	date := r.First("release_date", "releasedate", "releaseDate")
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// Normalizer maps raw records onto CatalogItem.
type Normalizer struct {
	// DeriveYear fills a missing year on detail records from the release date.
	DeriveYear bool
}

// Normalize maps a listing record (get_vod_streams or get_series entry).
func (n Normalizer) Normalize(r models.Record, kind string) models.CatalogItem {
	coverKey := "cover"
	if kind == constants.KindMovie {
		coverKey = "stream_icon"
	}

	item := models.CatalogItem{
		ID:       models.ID(r.First("stream_id", "series_id")),
		Title:    CleanTitle(r.String("name")),
		Cover:    CoverURL(r.First("stream_icon", "cover")),
		Banner:   BannerURL(bannerSource(r, coverKey)),
		Year:     strings.TrimSpace(r.String("year")),
		Genre:    PrimaryGenre(r.String("genre")),
		Kind:     kind,
		Synopsis: synopsis(r),
		Score:    r.Float("rating"),
	}
	if kind == constants.KindMovie {
		player := item.ID
		item.Player = &player
	}
	return item
}

// Movie maps a listing entry of get_vod_streams.
func (n Normalizer) Movie(r models.Record) models.CatalogItem {
	return n.Normalize(r, constants.KindMovie)
}

// Series maps a listing entry of get_series.
func (n Normalizer) Series(r models.Record) models.CatalogItem {
	return n.Normalize(r, constants.KindSeries)
}

// MovieInfo maps a get_vod_info payload for the requested id.
func (n Normalizer) MovieInfo(id string, payload models.Record) models.CatalogItem {
	info := payload.Object("info")
	movieData := payload.Object("movie_data")

	title := info.First("title", "name")
	if title == "" {
		title = movieData.First("name")
	}

	player := models.ID(id)
	return models.CatalogItem{
		ID:       models.ID(id),
		Title:    CleanTitle(title),
		Cover:    CoverURL(info.First("movie_image", "cover_big")),
		Banner:   BannerURL(bannerSource(info, "movie_image", "cover_big")),
		Year:     n.year(info),
		Genre:    PrimaryGenre(info.String("genre")),
		Kind:     constants.KindMovie,
		Synopsis: synopsis(info),
		Score:    info.Float("rating"),
		Player:   &player,
	}
}

// SeriesInfo maps the info block of a get_series_info payload.
func (n Normalizer) SeriesInfo(id string, payload models.Record) models.CatalogItem {
	info := payload.Object("info")

	return models.CatalogItem{
		ID:       models.ID(id),
		Title:    CleanTitle(info.First("name", "title")),
		Cover:    CoverURL(info.First("cover")),
		Banner:   BannerURL(bannerSource(info, "cover")),
		Year:     n.year(info),
		Genre:    PrimaryGenre(info.String("genre")),
		Kind:     constants.KindSeries,
		Synopsis: synopsis(info),
		Score:    info.Float("rating"),
	}
}

func (n Normalizer) year(info models.Record) string {
	if y := info.First("year"); y != "" {
		return y
	}
	if n.DeriveYear {
		return releaseYear(info)
	}
	return ""
}
