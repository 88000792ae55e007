package page

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"

	"github.com/kitbuilder587/breachsearch/internal/domain"
	"github.com/kitbuilder587/breachsearch/internal/search"
)

const (
	LabelSearch    = "Search"
	LabelSearching = "Searching…"
	Placeholder    = "Results will appear here."
)

type ResultMode int

const (
	ModePlaceholder ResultMode = iota
	ModeText
	ModeJSON
)

// View - снимок состояния для отрисовки
type View struct {
	Query          string
	Loading        bool
	ButtonLabel    string
	ButtonDisabled bool
	Remaining      string
	SignedIn       bool
	Email          string
	ResultMode     ResultMode
	ResultBody     string
}

func (p *Page) View(ctx context.Context) View {
	p.mu.Lock()
	query, loading, result := p.query, p.loading, p.result
	p.mu.Unlock()

	user, profile := p.identity.Current(ctx)
	v := View{
		Query:          query,
		Loading:        loading,
		ButtonLabel:    LabelSearch,
		ButtonDisabled: loading,
		Remaining:      domain.FormatRemaining(domain.ComputeRemaining(profile)),
		SignedIn:       user != nil,
	}
	if user != nil {
		v.Email = user.Email
	}
	if loading {
		v.ButtonLabel = LabelSearching
	}
	v.ResultMode, v.ResultBody = RenderResult(result)
	return v
}

// RenderResult - чистая функция от результата
func RenderResult(r search.Result) (ResultMode, string) {
	switch r.Kind {
	case search.KindText:
		return ModeText, r.Text
	case search.KindStructured:
		if len(r.Raw) > 0 {
			return ModeJSON, prettyRaw(r.Raw)
		}
		if r.Value == nil {
			return ModePlaceholder, Placeholder
		}
		return ModeJSON, prettyJSON(r.Value)
	default:
		return ModePlaceholder, Placeholder
	}
}

var prettyOptions = &pretty.Options{Indent: "  ", SortKeys: false}

// prettyRaw переформатирует тело ответа, не трогая порядок ключей
func prettyRaw(raw []byte) string {
	return string(bytes.TrimRight(pretty.PrettyOptions(raw, prettyOptions), "\n"))
}

func prettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
