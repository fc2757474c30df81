package streamHandler

import (
	"FaceStream/pkg/handlerUtil"
	"FaceStream/pkg/log"
	"FaceStream/pkg/mjpeg"
	"bufio"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func (h *StreamHandler) VideoFeed(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	frames, cancel, err := h.streamService.Subscribe()
	if err != nil {
		return handlerUtil.New(h.log).Handle(ctx, requestID, err, ctx.Path(), "video_feed")
	}

	ctx.Set(fiber.HeaderContentType, mjpeg.ContentType)
	ctx.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")

	fields := log.Fields{
		"request_id": requestID,
		"ip":         ctx.IP(),
	}

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		if err := mjpeg.Stream(w, frames); err != nil {
			h.log.WithFields(fields).Debugf("Video client went away: %v", err)
			return
		}
		h.log.WithFields(fields).Info("Video stream ended")
	})

	return nil
}

func (h *StreamHandler) GetAttributes(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, h.streamService.Attributes())
}

func (h *StreamHandler) GetSnapshot(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	frame, err := h.streamService.Latest()
	if err != nil {
		return handlerUtil.New(h.log).Handle(ctx, requestID, err, ctx.Path(), "get_snapshot")
	}

	ctx.Set(fiber.HeaderContentType, "image/jpeg")
	ctx.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	return ctx.Send(frame.JPEG)
}

func (h *StreamHandler) handleAttributesWebSocket(c *websocket.Conn) {
	h.log.Info("Attributes WebSocket client connected")
	defer h.log.Info("Attributes WebSocket client disconnected")

	events, cancel := h.streamService.SubscribeAttributes()
	defer cancel()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case attrs, ok := <-events:
			if !ok {
				err := c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream ended"),
					time.Now().Add(time.Second))
				if err != nil {
					h.log.Debugf("Error sending close message: %v", err)
				}
				return
			}

			if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				h.log.Errorf("Error setting write deadline: %v", err)
				return
			}
			if err := c.WriteJSON(attrs); err != nil {
				h.log.Debugf("Error sending attributes: %v", err)
				return
			}
		}
	}
}
