package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrSearchFailed = errors.New("search request failed")
	ErrEmptyQuery   = errors.New("empty query")
)

type Client interface {
	Search(ctx context.Context, query string) (Result, error)
}

type ResultKind int

const (
	KindNone ResultKind = iota
	KindText
	KindStructured
)

// Result - ответ поиска: либо ничего, либо текст, либо распарсенный JSON
type Result struct {
	Kind  ResultKind
	Text  string
	Value any
	// Raw - тело ответа как пришло, сохраняет порядок ключей
	Raw []byte
}

func TextResult(s string) Result {
	return Result{Kind: KindText, Text: s}
}

func StructuredResult(v any) Result {
	return Result{Kind: KindStructured, Value: v}
}

// JSONResult разбирает JSON-тело: null - пустой результат, строка - текст,
// остальное - структура
func JSONResult(body []byte) (Result, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return Result{}, err
	}
	switch t := v.(type) {
	case nil:
		return Result{}, nil
	case string:
		return TextResult(t), nil
	default:
		return Result{Kind: KindStructured, Value: v, Raw: body}, nil
	}
}

func (r Result) IsEmpty() bool {
	return r.Kind == KindNone
}

// StatusError - бэкенд ответил не-2xx
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search: status %d: %s", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrSearchFailed
}

// Message - то что показываем пользователю
func (e *StatusError) Message() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("Search failed (%d).", e.Status)
}
