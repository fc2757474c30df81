package streamHandler

import (
	"FaceStream/internal/entity"
	"FaceStream/pkg/handlerUtil"
	"FaceStream/pkg/locale"
	"FaceStream/pkg/log"
	"bytes"

	"github.com/gofiber/fiber/v2"
)

type pageData struct {
	Captions   locale.Captions
	Attributes entity.Attributes
	ShowLogo   bool
	LogoURL    string
	PollMillis int64
}

func (h *StreamHandler) Index(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Captions:   h.translator.Captions(),
		Attributes: h.streamService.Attributes(),
		ShowLogo:   h.page.ShowLogo,
		LogoURL:    h.page.LogoURL,
		PollMillis: h.page.PollInterval.Milliseconds(),
	})
	if err != nil {
		return handlerUtil.New(h.log).Handle(ctx, requestID, err, ctx.Path(), "render_index")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Rendered index page")

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.Send(buf.Bytes())
}
