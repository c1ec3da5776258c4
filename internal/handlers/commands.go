package handlers

import (
	"telegram-order-bot/internal/messages"
	"telegram-order-bot/internal/models"
)

// ---------------- /start --------------------

// HandleStart greets the client: registered clients get the main menu,
// everyone else (re)starts registration.
func (h *Handler) HandleStart(ev event) {
	p, ok := h.contact(ev)
	if !ok {
		return
	}
	if p.Registered {
		h.Sessions.ClearPending(ev.clientID)
		h.sendMenu(ev.chatID, messages.MainMenuTitle)
		return
	}
	h.beginRegistration(ev)
}

func (h *Handler) beginRegistration(ev event) {
	h.Sessions.BeginRegistration(ev.clientID)
	ev.log.Debug("📝 Регистрация начата")
	h.send(ev.chatID, messages.Prompt(models.StepAwaitingLocationName))
}
