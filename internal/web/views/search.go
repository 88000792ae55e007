package views

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/kitbuilder587/breachsearch/internal/page"
)

const searchPlaceholder = "Enter an email, phone, IP, domain, keyword…"

type SearchPageData struct {
	View     page.View
	Toasts   []page.Notification
	Redirect *page.Redirect
	// Action - куда отправляется форма, сохраняет q из адреса
	Action string
}

func SearchPage(d SearchPageData) g.Node {
	return Layout("Databases", d.Redirect,
		Toasts(d.Toasts),
		html.Section(
			html.Class("container"),
			html.Div(
				html.Class("center"),
				html.H1(g.Text("Databases")),
				html.P(g.Text("Search leaked data sources and Dark Web datasets in real time.")),
				html.P(
					html.Class("muted"),
					g.Text("Monitor dumps, marketplaces, and breach chatter for exposed emails, phone numbers, usernames, IPs, and domains linked to your assets."),
				),
				accountLine(d.View),
			),
			searchForm(d),
			html.Div(
				html.Style("margin-top: 2rem"),
				resultArea(d.View),
			),
		),
	)
}

func accountLine(v page.View) g.Node {
	if !v.SignedIn {
		return html.P(html.Class("muted"), html.A(html.Href("/auth"), g.Text("Sign in")))
	}
	return html.Form(
		html.Class("muted"),
		html.Method("post"),
		html.Action("/auth/logout"),
		g.Text("Signed in as "+v.Email+" "),
		html.Button(html.Type("submit"), g.Text("Sign out")),
	)
}

func searchForm(d SearchPageData) g.Node {
	v := d.View
	return html.Form(
		html.Method("post"),
		html.Action(d.Action),
		html.Div(
			html.Class("card"),
			html.Input(
				html.Type("text"),
				html.Name("q"),
				html.Value(v.Query),
				html.Placeholder(searchPlaceholder),
				html.AutoFocus(),
			),
		),
		html.Div(
			html.Class("row"),
			html.Div(
				html.Class("muted"),
				g.Text("Remaining: "),
				html.Span(html.ID("remaining"), html.Style("font-weight: 600"), g.Text(v.Remaining)),
			),
			html.Button(
				html.Type("submit"),
				g.If(v.ButtonDisabled, html.Disabled()),
				g.Text(v.ButtonLabel),
			),
		),
	)
}

func resultArea(v page.View) g.Node {
	switch v.ResultMode {
	case page.ModeText:
		return html.Pre(html.Class("wrap"), html.ID("result"), g.Text(v.ResultBody))
	case page.ModeJSON:
		return html.Pre(html.ID("result"), g.Text(v.ResultBody))
	default:
		return html.Div(html.Class("center muted"), g.Text(v.ResultBody))
	}
}
