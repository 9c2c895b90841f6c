package notify

import (
	"context"
	"log/slog"
)

// Dispatcher sends workflow emails. Every send is best-effort: failures are
// logged as handled issues and never returned to the caller, so a dead SMTP
// relay cannot fail a status change.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
}

func NewDispatcher(sender Sender, log *slog.Logger) *Dispatcher {
	if sender == nil {
		sender = DropSender{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{sender: sender, log: log}
}

// StatusEmail carries everything needed to notify an owner of a decision.
type StatusEmail struct {
	To          string
	Title       string
	Status      string
	EditorNotes string
}

// StatusChanged emails the owner when the new status has a template.
// in_review (and any future untemplated status) sends nothing.
func (d *Dispatcher) StatusChanged(ctx context.Context, e StatusEmail) {
	if e.To == "" {
		return
	}

	subject, html, ok := renderStatusEmail(e.Status, e.Title, e.EditorNotes)
	if !ok {
		return
	}

	if err := d.sender.Send(ctx, []string{e.To}, subject, html); err != nil {
		d.log.Error("status notification failed",
			"err", err, "to", e.To, "status", e.Status, "title", e.Title)
	}
}
