package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/videodev/internal/api/models"
	"github.com/smazurov/videodev/internal/logging"
)

// historyScan is how many entries are read from the history before filtering.
const historyScan = 500

func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recent-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Return recent log entries from the in-memory history, oldest first",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.LogsInput) (*models.LogsResponse, error) {
		minLevel := slog.LevelDebug
		if input.Level != "" {
			if err := minLevel.UnmarshalText([]byte(input.Level)); err != nil {
				return nil, huma.Error422UnprocessableEntity("Invalid level", err)
			}
		}

		var entries []models.LogEntry
		for _, e := range logging.Recent(historyScan) {
			if input.Module != "" && e.Module != input.Module {
				continue
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(e.Level)); err == nil && level < minLevel {
				continue
			}
			entries = append(entries, models.LogEntry{
				Timestamp:  e.Timestamp,
				Level:      e.Level,
				Module:     e.Module,
				Message:    e.Message,
				Attributes: e.Attributes,
			})
		}
		if len(entries) > input.Limit {
			entries = entries[len(entries)-input.Limit:]
		}
		if entries == nil {
			entries = []models.LogEntry{}
		}

		return &models.LogsResponse{Body: models.LogsData{Entries: entries, Count: len(entries)}}, nil
	})
}
