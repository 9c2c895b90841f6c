package notify

import (
	"fmt"
	"html/template"
	"strings"
)

// One template per decision-bearing status. in_review sends nothing; the
// dispatcher treats an unknown status as "no template" rather than an error.

type statusTemplate struct {
	subject string
	body    *template.Template
}

type statusEmailData struct {
	Title       string
	EditorNotes string
}

var statusTemplates = map[string]statusTemplate{
	"accepted": {
		subject: "Your Chicken Scratch submission was accepted!",
		body: template.Must(template.New("accepted").Parse(
			`<p>Good news! Your submission <strong>{{.Title}}</strong> was accepted for an upcoming issue.</p>
<p>The editorial committee will follow up with publication details.</p>`)),
	},
	"declined": {
		subject: "An update on your Chicken Scratch submission",
		body: template.Must(template.New("declined").Parse(
			`<p>Thank you for submitting <strong>{{.Title}}</strong>.</p>
<p>After review, the committee decided not to include it in the upcoming issue. We'd love to see more of your work in the future.</p>`)),
	},
	"needs_revision": {
		subject: "Your Chicken Scratch submission needs revisions",
		body: template.Must(template.New("needs_revision").Parse(
			`<p>Your submission <strong>{{.Title}}</strong> was reviewed and needs some changes before it can move forward.</p>
<p>Editor notes:</p>
<blockquote>{{.EditorNotes}}</blockquote>
<p>You can edit and resubmit from your submissions page.</p>`)),
	},
}

// renderStatusEmail returns the subject and HTML body for a status, or
// ok=false when the status carries no notification.
func renderStatusEmail(status, title, editorNotes string) (subject, html string, ok bool) {
	tpl, found := statusTemplates[status]
	if !found {
		return "", "", false
	}

	var b strings.Builder
	err := tpl.body.Execute(&b, statusEmailData{Title: title, EditorNotes: editorNotes})
	if err != nil {
		// Templates are static; an execute failure is a programming error.
		return tpl.subject, fmt.Sprintf("<p>Your submission %q is now %s.</p>", title, status), true
	}
	return tpl.subject, b.String(), true
}
