package views

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

type AuthPageData struct {
	Error string
	Email string
}

func AuthPage(d AuthPageData) g.Node {
	return Layout("Sign in", nil,
		html.Section(
			html.Class("container"),
			html.Div(
				html.Class("center"),
				html.H1(g.Text("Sign in")),
				html.P(html.Class("muted"), g.Text("Use your email to access breach database search.")),
			),
			g.If(d.Error != "", html.P(html.Class("toast toast-error"), g.Text(d.Error))),
			html.Form(
				html.Method("post"),
				html.Action("/auth"),
				html.Div(
					html.Class("card"),
					html.Input(
						html.Type("email"),
						html.Name("email"),
						html.Value(d.Email),
						html.Placeholder("you@example.com"),
						html.Required(),
						html.AutoFocus(),
					),
				),
				html.Div(
					html.Class("row"),
					html.A(html.Href("/databases"), html.Class("muted"), g.Text("Back to search")),
					html.Button(html.Type("submit"), g.Text("Continue")),
				),
			),
		),
	)
}
