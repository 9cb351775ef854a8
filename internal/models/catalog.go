// Package models holds the raw upstream record accessors and the normalized
// shapes served to clients.
package models

import (
	"encoding/json"

	"github.com/samber/mo"
)

// ID is an upstream-assigned identifier. Purely numeric ids are encoded as
// JSON numbers, everything else as strings.
type ID string

func (id ID) MarshalJSON() ([]byte, error) {
	if isJSONInteger(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

func isJSONInteger(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CatalogItem is the normalized representation of a movie or a series.
type CatalogItem struct {
	ID       ID                `json:"ID"`
	Title    string            `json:"Título"`
	Cover    string            `json:"Capa"`
	Banner   string            `json:"Banner"`
	Year     string            `json:"Ano"`
	Genre    string            `json:"Gênero"`
	Kind     string            `json:"Tipo"`
	Synopsis mo.Option[string] `json:"Sinopse"`
	Score    float64           `json:"Score"`
	Player   *ID               `json:"Player,omitempty"`
}

// Season summarizes one season bucket of a series.
type Season struct {
	SeriesID     ID                `json:"ID"`
	Number       int               `json:"Temporada"`
	Title        string            `json:"Titulo"`
	EpisodeCount mo.Option[int]    `json:"Qtd_Episodios"`
	Image        mo.Option[string] `json:"Imagem"`
}

// Episode is one playable episode of a series.
type Episode struct {
	ID     ID     `json:"ID"`
	Number int    `json:"Episodio"`
	Season int    `json:"Temporada"`
	Title  string `json:"Titulo_EP"`
	Cover  string `json:"Capa_EP"`
	Play   ID     `json:"Play"`
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Data    []T `json:"data"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// GenresResponse lists the distinct primary genres of the catalog.
type GenresResponse struct {
	Genres []string `json:"generos"`
}
