package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ao3feed-backend/lib/scrapers/ao3"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/feed")

const contentType = "application/rss+xml"

// heartbeat filler, any client tolerating extraneous markup comments
// will ignore it
const heartbeat = "<!-- keepalive -->"

type Options struct {
	// defaults to one second
	HeartbeatInterval time.Duration
}

type Service struct {
	scraper *ao3.Client
	options Options
}

func NewService(scraper *ao3.Client, options Options) Service {
	if options.HeartbeatInterval <= 0 {
		options.HeartbeatInterval = time.Second
	}
	return Service{
		scraper: scraper,
		options: options,
	}
}

func (s Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /work/{id}", s.handleWork)
}

func statusFromError(err error) int {
	var missing ao3.MissingFieldError
	if errors.As(err, &missing) {
		// a page without the required elements is not a work,
		// usually a deleted or restricted id
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s Service) handleWork(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workId, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "work id must be an unsigned integer", http.StatusBadRequest)
		return
	}

	ctx, span := tracer.Start(ctx, "handleWork")
	defer span.End()
	span.SetAttributes(attribute.Int64("work_id", int64(workId)))

	chunks := Keepalive(ctx, s.options.HeartbeatInterval, []byte(heartbeat), func(ctx context.Context) ([]byte, error) {
		work, err := s.scraper.FetchWork(ctx, workId)
		if err != nil {
			return nil, err
		}
		return SynthesizeRSS(work, s.scraper.BaseUrl)
	})

	w.Header().Set("Content-Type", contentType)
	rc := http.NewResponseController(w)

	wroteBody := false
	for chunk := range chunks {
		if chunk.Err != nil {
			span.RecordError(chunk.Err)
			span.SetStatus(codes.Error, "work request failed")
			if !wroteBody {
				http.Error(w, chunk.Err.Error(), statusFromError(chunk.Err))
				return
			}
			// filler already went out with a success status, all that is
			// left is to cut the body short
			slog.ErrorContext(ctx, "feed failed mid-stream", "work_id", workId, "err", chunk.Err)
			return
		}

		if _, err := w.Write(chunk.Data); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}
		wroteBody = true
	}
}
