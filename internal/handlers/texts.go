package handlers

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"telegram-order-bot/internal/messages"
	"telegram-order-bot/internal/metrics"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/registry"
	"telegram-order-bot/internal/session"
)

// HandleText routes free text: registration answers first, then a quantity
// for the pending selection, otherwise a hint to use the menu.
func (h *Handler) HandleText(ev event, text string) {
	p, ok := h.contact(ev)
	if !ok {
		return
	}

	if !p.Registered {
		step := h.Sessions.RegistrationStep(ev.clientID)
		if step == models.StepNone {
			h.beginRegistration(ev)
			return
		}
		h.handleRegistration(ev, step, text)
		return
	}

	if sel, ok := h.Sessions.Pending(ev.clientID); ok {
		h.handleQuantity(ev, p, sel, text)
		return
	}
	h.sendMenu(ev.chatID, messages.UseMenu)
}

// ---------------- registration --------------------

func (h *Handler) handleRegistration(ev event, step models.RegistrationStep, text string) {
	if cur := h.Sessions.RegistrationStep(ev.clientID); cur != step {
		h.registrationMoved(ev, cur)
		return
	}
	value, err := session.NormalizeInput(text)
	if err != nil {
		h.send(ev.chatID, messages.InvalidRegistrationInput(err, step))
		return
	}

	var profile models.ClientProfile
	switch step {
	case models.StepAwaitingLocationName:
		err = h.Registry.SetLocationName(ev.clientID, value)
	case models.StepAwaitingAddress:
		profile, err = h.Registry.CompleteRegistration(ev.clientID, value)
	}
	if !h.check(ev, err) {
		return
	}

	next, err := h.Sessions.Advance(context.Background(), ev.clientID, step)
	if errors.Is(err, session.ErrStepChanged) {
		h.registrationMoved(ev, next)
		return
	}
	if !h.check(ev, err) {
		return
	}
	if next != models.StepNone {
		h.send(ev.chatID, messages.Prompt(next))
		return
	}

	ev.log.WithField("location", profile.LocationName).Info("✅ Клиент зарегистрирован")
	h.observe()
	h.sendMenu(ev.chatID, messages.RegistrationDone(profile))
}

// registrationMoved answers an update that raced with another one from the
// same client: the step it answered is gone, so ask the current question.
func (h *Handler) registrationMoved(ev event, cur models.RegistrationStep) {
	ev.log.WithField("step", cur).Debug("registration step changed")
	if cur == models.StepNone {
		h.sendMenu(ev.chatID, messages.UseMenu)
		return
	}
	h.send(ev.chatID, messages.Prompt(cur))
}

// ---------------- quantity --------------------

func (h *Handler) handleQuantity(ev event, p models.ClientProfile, sel models.PendingSelection, text string) {
	qty, err := registry.ParseQuantity(text)
	if err != nil {
		h.send(ev.chatID, messages.InvalidQuantity(sel.Item))
		return
	}

	err = h.Registry.SetItemQuantity(ev.clientID, sel.Item, qty)
	if errors.Is(err, registry.ErrUnknownItem) {
		h.Sessions.ConsumePending(ev.clientID, sel)
		h.sendMenu(ev.chatID, messages.BadItem)
		return
	}
	if !h.check(ev, err) {
		return
	}
	h.Sessions.ConsumePending(ev.clientID, sel)

	op := "set"
	if qty == 0 {
		op = "remove"
	}
	metrics.QuantityChanges.WithLabelValues(op).Inc()
	h.observe()
	ev.log.WithFields(logrus.Fields{
		"item":     sel.Item,
		"quantity": qty,
		"previous": p.OpenOrder.Get(sel.Item),
	}).Info("🛒 Заказ обновлён")

	h.sendMenu(ev.chatID, messages.QuantityAccepted(sel, qty))
}
