// Package views renders the HTML pages of the console.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/exampaper/internal/i18n"
	"github.com/pavelanni/exampaper/internal/model"
)

var e = templ.EscapeString[string]

// path prefixes p with the deployment's base path.
func path(ctx context.Context, p string) string {
	return model.BasePathFromContext(ctx) + p
}

func csrfField(ctx context.Context) string {
	return `<input type="hidden" name="csrf_token" value="` + e(model.CSRFTokenFromContext(ctx)) + `">`
}

// page wraps body in the shared document shell.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | %s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
header { display: flex; justify-content: space-between; align-items: center; border-bottom: 2px solid #29629b; }
table { border-collapse: collapse; width: 100%%; }
th, td { text-align: left; padding: .4rem; border-bottom: 1px solid #ddd; }
.error { color: #b00020; }
.notice { color: #29629b; }
</style>
</head>
<body>
`, e(appI18n.T(ctx, "LangCode")), e(title), e(appI18n.T(ctx, "AppTitle"))); err != nil {
			return err
		}
		if u := model.UserFromContext(ctx); u != nil {
			if err := header(ctx, w, u); err != nil {
				return err
			}
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

func header(ctx context.Context, w io.Writer, u *model.User) error {
	admin := ""
	if u.Role == model.UserRoleAdmin {
		admin = fmt.Sprintf(` <a href="%s">%s</a>`, e(path(ctx, "/admin/users")), e(appI18n.T(ctx, "Admin")))
	}
	_, err := fmt.Fprintf(w, `<header>
<h1><a href="%s">%s</a></h1>
<nav>%s%s <form method="post" action="%s" style="display:inline">%s<button type="submit">%s</button></form></nav>
</header>
`,
		e(path(ctx, "/")), e(appI18n.T(ctx, "AppTitle")),
		e(u.DisplayName), admin,
		e(path(ctx, "/logout")), csrfField(ctx), e(appI18n.T(ctx, "Logout")))
	return err
}
