// Package pagination приводит page/per_page из запроса к ограниченному
// окну offset/limit и собирает конверт ответа с полным количеством строк.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 100
	MaxPerPage     = 500
)

type Params struct {
	Page    int
	PerPage int
}

// Normalize подставляет значения по умолчанию и ограничивает per_page сверху.
// Отрицательные и нулевые значения считаются непереданными.
func Normalize(page, perPage int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// FromQuery читает page и per_page из query-параметров.
// Нечисловые значения - ошибка, отсутствующие - значения по умолчанию.
func FromQuery(q url.Values) (Params, error) {
	page := DefaultPage
	perPage := DefaultPerPage

	if raw := q.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Params{}, fmt.Errorf("неверное значение page: %q", raw)
		}
		page = parsed
	}

	if raw := q.Get("per_page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Params{}, fmt.Errorf("неверное значение per_page: %q", raw)
		}
		perPage = parsed
	}

	return Normalize(page, perPage), nil
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.PerPage
}

// Page - конверт списочного ответа. Total - полное количество строк
// под тем же предикатом, не размер среза.
type Page[T any] struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Results []T `json:"results"`
}

func NewPage[T any](p Params, total int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Page:    p.Page,
		PerPage: p.PerPage,
		Total:   total,
		Results: results,
	}
}
