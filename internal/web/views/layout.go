package views

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/kitbuilder587/breachsearch/internal/page"
)

const styles = `
body { font-family: system-ui, sans-serif; margin: 0; background: #0b0f17; color: #e6e9ef; }
.container { max-width: 48rem; margin: 0 auto; padding: 2rem 1rem; }
.center { text-align: center; }
.muted { color: #9aa3b2; font-size: .875rem; }
.card { border: 1px solid #273042; border-radius: 1rem; background: #121826; padding: .75rem; }
.row { display: flex; align-items: center; justify-content: space-between; margin-top: .75rem; }
input[type=text], input[type=email] { width: 100%; box-sizing: border-box; padding: .6rem; border-radius: .5rem; border: 1px solid #273042; background: #0b0f17; color: inherit; }
button { height: 2.5rem; padding: 0 1.25rem; border-radius: .5rem; border: 0; background: #5b5bd6; color: #fff; cursor: pointer; }
button[disabled] { opacity: .6; cursor: default; }
pre { overflow: auto; border: 1px solid #273042; border-radius: .75rem; background: #121826; padding: 1rem; text-align: left; }
pre.wrap { white-space: pre-wrap; }
.toasts { position: fixed; top: 1rem; right: 1rem; display: grid; gap: .5rem; }
.toast { padding: .6rem 1rem; border-radius: .5rem; background: #1d2433; }
.toast-error { border-left: 4px solid #e5484d; }
.toast-info { border-left: 4px solid #3e63dd; }
`

// Layout - общий каркас страниц; redirect != nil добавляет отложенную навигацию
func Layout(title string, redirect *page.Redirect, body ...g.Node) g.Node {
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(g.Text(title)),
				g.If(redirect != nil, refreshMeta(redirect)),
				html.StyleEl(g.Raw(styles)),
			),
			html.Body(body...),
		),
	)
}

func refreshMeta(r *page.Redirect) g.Node {
	if r == nil {
		return nil
	}
	return html.Meta(g.Attr("http-equiv", "refresh"), html.Content(RefreshValue(r)))
}

func Toasts(items []page.Notification) g.Node {
	if len(items) == 0 {
		return nil
	}
	return html.Div(
		html.Class("toasts"),
		g.Attr("role", "status"),
		g.Attr("aria-live", "polite"),
		g.Map(items, func(n page.Notification) g.Node {
			return html.Div(
				html.Class("toast toast-"+string(n.Level)),
				g.Text(n.Message),
			)
		}),
	)
}
