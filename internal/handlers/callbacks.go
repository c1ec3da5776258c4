package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-order-bot/internal/messages"
	"telegram-order-bot/internal/metrics"
	"telegram-order-bot/internal/models"
)

func (h *Handler) HandleCallback(updateID int, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}
	chatID := cq.From.ID
	if cq.Message != nil && cq.Message.Chat != nil {
		chatID = cq.Message.Chat.ID
	}
	ev := h.newEvent(updateID, chatID, cq.From)
	defer h.lockClient(ev.clientID)()
	metrics.Updates.WithLabelValues("callback").Inc()

	p, ok := h.contact(ev)
	if !ok {
		h.ack(cq.ID, "")
		return
	}

	// menus are only for registered clients; a button pressed mid-registration
	// is not taken as an answer, the current question is asked again
	if !p.Registered {
		h.ack(cq.ID, messages.RegisterFirst)
		step := h.Sessions.RegistrationStep(ev.clientID)
		if step == models.StepNone {
			h.beginRegistration(ev)
			return
		}
		h.send(ev.chatID, messages.Prompt(step))
		return
	}

	act, idx := messages.ParseCallback(cq.Data)
	ev.log.WithField("callback", cq.Data).Debug("callback")

	switch act {
	case messages.ActOrder:
		h.ack(cq.ID, "")
		h.sendMarkup(ev.chatID, messages.ChooseItem, messages.CatalogMenu(h.Catalog))

	case messages.ActMyOrder:
		h.ack(cq.ID, "")
		if p.OpenOrder.IsEmpty() {
			h.sendMenu(ev.chatID, messages.EmptyOrder)
			return
		}
		h.sendMarkup(ev.chatID, messages.OrderView(p.OpenOrder, h.Catalog), messages.OrderMenu(p.OpenOrder, h.Catalog))

	case messages.ActClear:
		if !h.check(ev, h.Registry.ClearOrder(ev.clientID)) {
			h.ack(cq.ID, "")
			return
		}
		h.Sessions.ClearPending(ev.clientID)
		h.observe()
		ev.log.Info("🗑 Клиент очистил заказ")
		h.ack(cq.ID, messages.OrderCleared)
		h.sendMenu(ev.chatID, messages.OrderCleared)

	case messages.ActItem, messages.ActEdit:
		item, ok := h.Catalog.At(idx)
		if !ok {
			h.ack(cq.ID, messages.BadItem)
			return
		}
		sel := models.PendingSelection{Item: item.Name, IsEdit: act == messages.ActEdit}
		h.Sessions.SetPending(ev.clientID, sel)
		h.ack(cq.ID, messages.Selected(item.Name))
		h.send(ev.chatID, messages.AskQuantity(sel, item.Weight, p.OpenOrder.Get(item.Name)))

	default:
		h.ack(cq.ID, messages.BadItem)
	}
}
