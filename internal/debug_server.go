package internal

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/repositories"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	Timestamp string
	Event     string
	Detail    string
}

type SessionRow struct {
	Name        string
	Remote      string
	ConnectedAt string
}

type PageData struct {
	Sessions []SessionRow
	Items    []InspectRow
	Stats    map[string]any
}

// NewDebugHandler serves an HTML page listing live sessions and the audit
// records mirrored in Badger. It exposes remote addresses and must only be
// bound to a private interface.
func NewDebugHandler(log *slog.Logger, registry contract.IRegistry, repository repositories.IAuditRepository) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))
	mux := http.NewServeMux()

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		records, err := repository.GetRecords()
		if err != nil {
			log.Error("Failed to read audit records", "error", err)
			http.Error(w, "failed to read audit records", http.StatusInternalServerError)
			return
		}

		sessions := registry.Sessions()
		data := PageData{
			Sessions: lo.Map(sessions, func(s domain.Session, _ int) SessionRow {
				return SessionRow{
					Name:        s.DisplayName,
					Remote:      s.RemoteAddress,
					ConnectedAt: s.ConnectedAt.Format(time.TimeOnly),
				}
			}),
			Items: lo.Map(records, func(rec repositories.DiskRecord, _ int) InspectRow {
				return InspectRow{
					Key:       rec.Key,
					Timestamp: rec.Record.At.Format(time.TimeOnly),
					Event:     rec.Record.Event,
					Detail:    rec.Record.Details,
				}
			}),
			Stats: map[string]any{
				"sessions": len(sessions),
				"records":  len(records),
			},
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Error("Failed to render inspector", "error", err)
		}
	})
	return mux
}
