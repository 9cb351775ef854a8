// Package upstream talks to the IPTV provider's player API.
package upstream

import (
	"net/url"
	"sort"
	"strings"

	"github.com/amaumene/venusplay/internal/constants"
)

// Param is one action-specific parameter.
type Param struct {
	Key   string
	Value string
}

// Request is one call against the player API: an action plus its parameters.
type Request struct {
	Action string
	Params []Param
}

func ListMovies() Request       { return Request{Action: constants.ActionVodStreams} }
func ListSeries() Request       { return Request{Action: constants.ActionSeries} }
func MovieCategories() Request  { return Request{Action: constants.ActionVodCategories} }
func SeriesCategories() Request { return Request{Action: constants.ActionSeriesCategories} }

func MovieInfo(vodID string) Request {
	return Request{
		Action: constants.ActionVodInfo,
		Params: []Param{{Key: constants.ParamVodID, Value: vodID}},
	}
}

func SeriesInfo(seriesID string) Request {
	return Request{
		Action: constants.ActionSeriesInfo,
		Params: []Param{{Key: constants.ParamSeriesID, Value: seriesID}},
	}
}

// ActionValue renders the compound action string the provider expects:
// parameters are appended to the action itself, e.g.
// "get_vod_info&vod_id=42". Values are escaped, the separators are not.
func (r Request) ActionValue() string {
	var b strings.Builder
	b.WriteString(r.Action)
	for _, p := range r.Params {
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// URL builds the full request URL for base with the given credentials.
func (r Request) URL(base, username, password string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep +
		"username=" + url.QueryEscape(username) +
		"&password=" + url.QueryEscape(password) +
		"&action=" + r.ActionValue()
}

// CacheKey identifies the logical request regardless of parameter order.
func (r Request) CacheKey() string {
	params := make([]Param, len(r.Params))
	copy(params, r.Params)
	sort.Slice(params, func(i, j int) bool {
		if params[i].Key != params[j].Key {
			return params[i].Key < params[j].Key
		}
		return params[i].Value < params[j].Value
	})

	return Request{Action: r.Action, Params: params}.ActionValue()
}

func (r Request) String() string {
	return r.ActionValue()
}
