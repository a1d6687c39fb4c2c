package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oksasatya/jsonplaceholder-api/pkg/mailer/templates"
)

// ErrBadJob marks deliveries that can never succeed and must not be requeued.
var ErrBadJob = errors.New("mailer: bad job")

// Worker turns queued EmailJobs into sent messages.
type Worker struct {
	Sender  Sender
	AppName string
}

// Handle decodes one queue delivery, renders it and sends it.
// Errors wrapping ErrBadJob are permanent; any other error is worth a retry.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrBadJob, err)
	}
	msg, err := w.render(job)
	if err != nil {
		return err
	}
	return w.Sender.Send(ctx, msg)
}

func (w *Worker) render(job EmailJob) (Message, error) {
	if job.To == "" {
		return Message{}, fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	msg := Message{To: job.To, Subject: job.Subject, Text: job.Text, HTML: job.HTML}
	if job.Template == "" {
		return msg, nil
	}

	data := make(map[string]any, len(job.Data)+2)
	for k, v := range job.Data {
		data[k] = v
	}
	if _, ok := data["AppName"]; !ok && w.AppName != "" {
		data["AppName"] = w.AppName
	}
	if _, ok := data["Email"]; !ok {
		data["Email"] = job.To
	}

	subject, text, html, err := templates.Render(job.Template, data)
	if err != nil {
		return Message{}, fmt.Errorf("%w: render %s: %v", ErrBadJob, job.Template, err)
	}
	msg.Subject, msg.Text, msg.HTML = subject, text, html
	return msg, nil
}
