package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-order-bot/internal/messages"
	"telegram-order-bot/internal/report"
)

// Telegram rejects longer text messages.
const maxMessageLen = 4000

// ---------------- sending --------------------

func (h *Handler) send(chatID int64, text string) {
	h.sendMarkup(chatID, text, nil)
}

func (h *Handler) sendMenu(chatID int64, text string) {
	h.sendMarkup(chatID, text, messages.MainMenu())
}

func (h *Handler) sendMarkup(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.Bot.Send(msg); err != nil {
		h.Log.WithError(err).WithField("chat_id", chatID).Warn("Не удалось отправить сообщение")
	}
}

// sendLong splits text on blank lines so each part fits one message.
func (h *Handler) sendLong(chatID int64, text string) error {
	for _, part := range splitMessage(text, maxMessageLen) {
		if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, part)); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) sendDocument(chatID int64, doc report.Document, caption string) error {
	cfg := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: doc.Filename, Bytes: doc.Data})
	cfg.Caption = caption
	_, err := h.Bot.Send(cfg)
	return err
}

func (h *Handler) ack(callbackID, text string) {
	if _, err := h.Bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.Log.WithError(err).Debug("callback answer failed")
	}
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	for _, block := range strings.SplitAfter(text, "\n\n") {
		if cur.Len() > 0 && cur.Len()+len(block) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		// блок длиннее лимита режем по байтам на границе руны
		for len(block) > limit {
			cut := limit
			for cut > 0 && !utf8RuneStart(block[cut]) {
				cut--
			}
			parts = append(parts, block[:cut])
			block = block[cut:]
		}
		cur.WriteString(block)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }
