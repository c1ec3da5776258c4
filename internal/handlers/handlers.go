package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"telegram-order-bot/internal/messages"
	"telegram-order-bot/internal/report"
)

// --- scheduled actions ----------

// AutoSummary sends the day's table and digest to the administrator and
// snapshots the contributing orders into the history ledger. Open orders are
// left untouched; the reset clears them later.
func (h *Handler) AutoSummary(date string) error {
	log := h.Log.WithFields(logrus.Fields{"action": "summary", "date": date})

	t := report.BuildSummary(h.Registry.List(), h.Catalog, date)
	if t == nil {
		log.Info("📭 Нет заказов для сводки")
		return h.sendErr(h.AdminID, messages.NothingToReport(date))
	}
	if err := h.sendTable(h.AdminID, t); err != nil {
		return err
	}
	if err := h.sendLong(h.AdminID, report.RenderText(t)); err != nil {
		log.WithError(err).Warn("Не удалось отправить текстовую сводку")
	}

	// a failed write is not retried: the table already reached the admin
	entries := t.HistoryEntries(h.now().Format("15:04"))
	if err := h.History.Append(date, entries); err != nil {
		log.WithError(err).Error("❌ История не сохранена")
	}
	log.WithFields(logrus.Fields{"clients": len(t.Rows), "total": t.GrandTotal}).Info("📊 Сводка отправлена")
	return nil
}

// ResetOrders clears every open order and reports how many were non-empty.
func (h *Handler) ResetOrders() (int, error) {
	n, err := h.Registry.ClearAllOrders()
	h.observe()
	if err != nil {
		return n, err
	}
	h.Log.WithField("cleared", n).Info("🔄 Заказы сброшены")
	return n, nil
}

func (h *Handler) NotifyAdmin(text string) {
	h.send(h.AdminID, text)
}

// sendTable renders t and delivers it as a document.
func (h *Handler) sendTable(chatID int64, t *report.SummaryTable) error {
	doc, err := h.Renderer.Render(t)
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	caption := messages.ExportCaption(t.Date, len(t.Rows), t.GrandTotal)
	if err := h.sendDocument(chatID, doc, caption); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	return nil
}

func (h *Handler) sendErr(chatID int64, text string) error {
	_, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
