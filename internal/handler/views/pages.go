package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	appI18n "github.com/pavelanni/exampaper/internal/i18n"
	"github.com/pavelanni/exampaper/internal/model"
)

// LoginPage renders the sign-in form with an optional error message.
func LoginPage(errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			msg := ""
			if errMsg != "" {
				msg = `<p class="error">` + e(errMsg) + `</p>`
			}
			_, err := fmt.Fprintf(w, `<h1>%s</h1>
%s
<form method="post" action="%s">
%s
<p><label>%s <input name="username" autocomplete="username" required></label></p>
<p><label>%s <input name="password" type="password" autocomplete="current-password" required></label></p>
<p><button type="submit">%s</button></p>
</form>
`,
				e(appI18n.T(ctx, "Login")), msg, e(path(ctx, "/login")), csrfField(ctx),
				e(appI18n.T(ctx, "Username")), e(appI18n.T(ctx, "Password")), e(appI18n.T(ctx, "SignIn")))
			return err
		})
		return page(appI18n.T(ctx, "Login"), body).Render(ctx, w)
	})
}

// IndexPage lists the papers the user may export.
func IndexPage(papers []model.Paper, questionCount int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := fmt.Fprintf(w, "<h2>%s</h2>\n<p>%s</p>\n",
				e(appI18n.T(ctx, "Papers")), e(appI18n.Tp(ctx, "QuestionsInBank", questionCount))); err != nil {
				return err
			}
			if len(papers) == 0 {
				_, err := fmt.Fprintf(w, "<p>%s</p>\n", e(appI18n.T(ctx, "NoPapers")))
				return err
			}
			if _, err := fmt.Fprintf(w, "<table>\n<tr><th>%s</th><th>%s</th><th>%s</th><th></th></tr>\n",
				e(appI18n.T(ctx, "Title")),
				e(appI18n.T(ctx, "LabelSubject")), e(appI18n.T(ctx, "LabelClass"))); err != nil {
				return err
			}
			for _, p := range papers {
				base := path(ctx, fmt.Sprintf("/api/papers/%d/export/", p.ID))
				if _, err := fmt.Fprintf(w, `<tr><td title="%s">%s</td><td>%s</td><td>%s</td><td>
<a href="%s">%s</a> | <a href="%s">%s</a> | <a href="%s">%s</a>
</td></tr>
`,
					e(appI18n.Td(ctx, "PaperN", map[string]any{"ID": p.ID})), e(p.Title), e(p.Subject), e(p.ClassName),
					e(base+"questions?answers=true&explanations=true"), e(appI18n.T(ctx, "ExportQuestions")),
					e(base+"question-paper"), e(appI18n.T(ctx, "ExportQuestionPaper")),
					e(base+"answer-key"), e(appI18n.T(ctx, "ExportAnswerKey"))); err != nil {
					return err
				}
			}
			_, err := io.WriteString(w, "</table>\n")
			return err
		})
		return page(appI18n.T(ctx, "Papers"), body).Render(ctx, w)
	})
}

// AdminUsersPage lists users and their access grants.
func AdminUsersPage(users []model.User, grants []model.AccessGrant, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := fmt.Fprintf(w, "<h2>%s</h2>\n", e(appI18n.T(ctx, "Users"))); err != nil {
				return err
			}
			if msg != "" {
				if _, err := fmt.Fprintf(w, "<p class=\"notice\">%s</p>\n", e(msg)); err != nil {
					return err
				}
			}
			byUser := make(map[int64][]model.AccessGrant)
			for _, g := range grants {
				byUser[g.UserID] = append(byUser[g.UserID], g)
			}

			if _, err := fmt.Fprintf(w, "<table>\n<tr><th>%s</th><th>%s</th><th>%s</th><th>%s</th><th>%s</th></tr>\n",
				e(appI18n.T(ctx, "Username")), e(appI18n.T(ctx, "DisplayName")), e(appI18n.T(ctx, "Role")),
				e(appI18n.T(ctx, "Active")), e(appI18n.T(ctx, "Access"))); err != nil {
				return err
			}
			for _, u := range users {
				if err := userRow(ctx, w, u, byUser[u.ID]); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</table>\n"); err != nil {
				return err
			}
			return createUserForm(ctx, w)
		})
		return page(appI18n.T(ctx, "Users"), body).Render(ctx, w)
	})
}

func userRow(ctx context.Context, w io.Writer, u model.User, grants []model.AccessGrant) error {
	status := appI18n.T(ctx, "Inactive")
	if u.Active {
		status = appI18n.T(ctx, "Active")
	}
	if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s
<form method="post" action="%s" style="display:inline">%s<button type="submit">%s</button></form></td><td>
`,
		e(u.Username), e(u.DisplayName), e(string(u.Role)), e(status),
		e(path(ctx, fmt.Sprintf("/admin/users/%d/toggle", u.ID))), csrfField(ctx), e(appI18n.T(ctx, "Toggle"))); err != nil {
		return err
	}
	for _, g := range grants {
		if _, err := fmt.Fprintf(w, `%s / %s <form method="post" action="%s" style="display:inline">%s<button type="submit">%s</button></form><br>
`,
			e(g.Subject), e(g.ClassName),
			e(path(ctx, fmt.Sprintf("/admin/access/%d/revoke", g.ID))), csrfField(ctx), e(appI18n.T(ctx, "Revoke"))); err != nil {
			return err
		}
	}
	if u.Role == model.UserRoleTeacher {
		if _, err := fmt.Fprintf(w, `<form method="post" action="%s">%s<input type="hidden" name="user_id" value="%d">
<input name="subject" placeholder="%s" required> <input name="class_name" placeholder="%s" required>
<button type="submit">%s</button></form>
`,
			e(path(ctx, "/admin/access")), csrfField(ctx), u.ID,
			e(appI18n.T(ctx, "LabelSubject")), e(appI18n.T(ctx, "LabelClass")), e(appI18n.T(ctx, "Grant"))); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</td></tr>\n")
	return err
}

func createUserForm(ctx context.Context, w io.Writer) error {
	_, err := fmt.Fprintf(w, `<h3>%s</h3>
<form method="post" action="%s">
%s
<p><label>%s <input name="username" required></label></p>
<p><label>%s <input name="display_name"></label></p>
<p><label>%s <input name="password" type="password" required></label></p>
<p><label>%s <select name="role"><option value="teacher">teacher</option><option value="admin">admin</option></select></label></p>
<p><button type="submit">%s</button></p>
</form>
`,
		e(appI18n.T(ctx, "CreateUser")), e(path(ctx, "/admin/users")), csrfField(ctx),
		e(appI18n.T(ctx, "Username")), e(appI18n.T(ctx, "DisplayName")), e(appI18n.T(ctx, "Password")),
		e(appI18n.T(ctx, "Role")), e(appI18n.T(ctx, "CreateUser")))
	return err
}
