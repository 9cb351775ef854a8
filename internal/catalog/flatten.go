package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/mo"

	apperrors "github.com/amaumene/venusplay/internal/errors"
	"github.com/amaumene/venusplay/internal/models"
)

var (
	// "Dark - S01E02 - " style stamp in front of the real episode title
	stampPrefix = regexp.MustCompile(`(?i)^.*?\bS\d{1,3}\s*E\d{1,4}\s*-\s*`)
	// " - S01E02 - Capítulo 2" style stamp after the real episode title
	chapterSuffix = regexp.MustCompile(`(?i)\s*-\s*S\d{2}E\d{2}\s*-\s*Cap[ií]tulo\s*\d+\s*$`)
	// "Pilot - S01E01" style stamp closing the title
	stampSuffix = regexp.MustCompile(`(?i)\s*-?\s*\bS\d{1,3}\s*E\d{1,4}\s*$`)
)

// NormalizeSeasonKey reduces "S01", "S1", "01" and "1" to "1".
func NormalizeSeasonKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) > 0 && (key[0] == 'S' || key[0] == 's') {
		key = key[1:]
	}
	key = strings.TrimLeft(key, "0")
	if key == "" {
		return "0"
	}
	return key
}

func seasonNumber(key string) int {
	n, err := strconv.Atoi(NormalizeSeasonKey(key))
	if err != nil {
		return 0
	}
	return n
}

// StripEpisodeStamp removes an episode code stamp the provider already
// baked into a title.
func StripEpisodeStamp(title string) string {
	title = chapterSuffix.ReplaceAllString(strings.TrimSpace(title), "")
	title = stampSuffix.ReplaceAllString(title, "")
	title = stampPrefix.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// ComposeEpisodeTitle renders "Series - S01E02 - Title".
func ComposeEpisodeTitle(series string, season, episode int, raw string) string {
	code := fmt.Sprintf("%s - S%02dE%02d", series, season, episode)
	title := StripEpisodeStamp(raw)
	if title == "" || strings.EqualFold(title, series) {
		return code
	}
	return code + " - " + title
}

// seasonBucket is one season key of the provider's episode map.
type seasonBucket struct {
	key      string
	number   int
	episodes []models.Record
}

// Series is a parsed get_series_info payload ready to be flattened.
type Series struct {
	ID      models.ID
	Title   string
	Cover   string
	known   bool
	buckets []seasonBucket
}

// ParseSeries reads the info block and the season map of payload.
func ParseSeries(id string, payload models.Record) Series {
	info := payload.Object("info")
	buckets := parseBuckets(payload.Value("episodes"))
	return Series{
		ID:      models.ID(id),
		Title:   CleanTitle(info.First("name", "title")),
		Cover:   CoverURL(info.First("cover")),
		known:   !info.IsEmpty() || len(buckets) > 0,
		buckets: buckets,
	}
}

// Exists reports whether the provider knows the series at all.
func (s Series) Exists() bool {
	return s.known
}

func parseBuckets(raw interface{}) []seasonBucket {
	var buckets []seasonBucket

	switch v := raw.(type) {
	case map[string]interface{}:
		for key, list := range v {
			buckets = append(buckets, seasonBucket{
				key:      key,
				number:   seasonNumber(key),
				episodes: episodeRecords(list),
			})
		}
	case []interface{}:
		// Some panels send a list of lists; the season then comes from
		// the episodes themselves.
		for i, list := range v {
			eps := episodeRecords(list)
			key := strconv.Itoa(i + 1)
			if len(eps) > 0 {
				if s := eps[0].First("season"); s != "" {
					key = s
				}
			}
			buckets = append(buckets, seasonBucket{
				key:      key,
				number:   seasonNumber(key),
				episodes: eps,
			})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].number != buckets[j].number {
			return buckets[i].number < buckets[j].number
		}
		return buckets[i].key < buckets[j].key
	})
	for i := range buckets {
		sortEpisodes(buckets[i].episodes)
	}
	return buckets
}

func episodeRecords(raw interface{}) []models.Record {
	var out []models.Record
	switch v := raw.(type) {
	case []interface{}:
		for _, e := range v {
			if m, ok := e.(map[string]interface{}); ok {
				out = append(out, models.Record(m))
			}
		}
	case map[string]interface{}:
		// Object keyed by position instead of a list.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if m, ok := v[k].(map[string]interface{}); ok {
				out = append(out, models.Record(m))
			}
		}
	}
	return out
}

func sortEpisodes(eps []models.Record) {
	sort.SliceStable(eps, func(i, j int) bool {
		return eps[i].Int("episode_num") < eps[j].Int("episode_num")
	})
}

func (s Series) episode(b seasonBucket, e models.Record) models.Episode {
	id := models.ID(e.First("id"))
	cover := CoverURL(e.Object("info").First("movie_image"))
	if cover == "" {
		cover = s.Cover
	}
	return models.Episode{
		ID:     id,
		Number: e.Int("episode_num"),
		Season: b.number,
		Title:  strings.TrimSpace(e.String("title")),
		Cover:  cover,
		Play:   id,
	}
}

func (s Series) composed(b seasonBucket, e models.Record) models.Episode {
	ep := s.episode(b, e)
	ep.Title = ComposeEpisodeTitle(s.Title, ep.Season, ep.Number, ep.Title)
	return ep
}

// Seasons lists every season in ascending order.
func (s Series) Seasons() []models.Season {
	seasons := make([]models.Season, 0, len(s.buckets))
	for _, b := range s.buckets {
		image := s.Cover
		if len(b.episodes) > 0 {
			if img := CoverURL(b.episodes[0].Object("info").First("movie_image")); img != "" {
				image = img
			}
		}

		season := models.Season{
			SeriesID:     s.ID,
			Number:       b.number,
			Title:        fmt.Sprintf("Temporada %d", b.number),
			EpisodeCount: mo.Some(len(b.episodes)),
		}
		if image != "" {
			season.Image = mo.Some(image)
		}
		seasons = append(seasons, season)
	}
	return seasons
}

// Episodes lists one season with the provider's own episode titles. The
// requested key matches both literally and after normalization, so "1"
// finds a season stored as "S01".
func (s Series) Episodes(seasonKey string) ([]models.Episode, error) {
	wanted := NormalizeSeasonKey(seasonKey)
	var out []models.Episode
	found := false

	for _, b := range s.buckets {
		if b.key != seasonKey && NormalizeSeasonKey(b.key) != wanted {
			continue
		}
		found = true
		for _, e := range b.episodes {
			out = append(out, s.episode(b, e))
		}
	}

	if !found {
		return nil, apperrors.NewNotFoundError("season", seasonKey)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	if out == nil {
		out = []models.Episode{}
	}
	return out, nil
}

// AllEpisodes flattens every season with composed display titles.
func (s Series) AllEpisodes() []models.Episode {
	out := []models.Episode{}
	for _, b := range s.buckets {
		for _, e := range b.episodes {
			out = append(out, s.composed(b, e))
		}
	}
	return out
}

// Episode looks up a single episode by its provider id.
func (s Series) Episode(episodeID string) (models.Episode, error) {
	for _, b := range s.buckets {
		for _, e := range b.episodes {
			if e.First("id") == episodeID {
				return s.composed(b, e), nil
			}
		}
	}
	return models.Episode{}, apperrors.NewNotFoundError("episode", episodeID)
}
