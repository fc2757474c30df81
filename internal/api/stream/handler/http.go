package streamHandler

import (
	"FaceStream/internal/api/stream"
	streamService "FaceStream/internal/api/stream/service"
	"FaceStream/internal/entity"
	"FaceStream/internal/middleware"
	"FaceStream/pkg/locale"
	"embed"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// StatsSource reports the capture pipeline counters.
type StatsSource interface {
	Stats() entity.PipelineStats
}

type PageConfig struct {
	ShowLogo     bool
	LogoURL      string
	PollInterval time.Duration
}

type RuntimeInfo struct {
	stream.BuildInfo
	HistoryEnabled bool
}

type StreamHandler struct {
	log           *logrus.Logger
	middleware    middleware.Middleware
	streamService streamService.IStreamService
	translator    locale.ITranslator
	stats         StatsSource
	page          PageConfig
	info          RuntimeInfo
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ss streamService.IStreamService,
	translator locale.ITranslator,
	stats StatsSource,
	page PageConfig,
	info RuntimeInfo,
) *StreamHandler {
	if page.PollInterval <= 0 {
		page.PollInterval = time.Second
	}
	if page.LogoURL == "" {
		page.LogoURL = "/static/icei.png"
	}

	return &StreamHandler{
		log:           log,
		middleware:    middleware,
		streamService: ss,
		translator:    translator,
		stats:         stats,
		page:          page,
		info:          info,
	}
}

// Mount registers the browser-facing routes at the application root.
func (h *StreamHandler) Mount(app fiber.Router) {
	app.Get("/", h.Index)
	app.Get("/video_feed", h.VideoFeed)
	app.Get("/attributes", h.GetAttributes)
	app.Get("/snapshot", h.GetSnapshot)

	app.Use("/attributes/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/attributes/ws", websocket.New(h.handleAttributesWebSocket))
}

func (h *StreamHandler) Start(srv fiber.Router) {
	srv.Get("/status", h.GetStatus)
	srv.Get("/faces", h.GetFaces)
	srv.Post("/snapshots", h.CreateSnapshot)
}
