package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"telegram-order-bot/internal/messages"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/registry"
	"telegram-order-bot/internal/report"
)

const defaultHistoryDays = 7

var adminCommands = map[string]bool{
	"export":  true,
	"summary": true,
	"clients": true,
	"history": true,
	"clear":   true,
	"delete":  true,
	"backup":  true,
	"help":    true,
}

func isAdminCommand(cmd string) bool { return adminCommands[cmd] }

// isAdmin checks the sender, not the chat: in a group every member shares
// the chat id.
func (h *Handler) isAdmin(ev event) bool {
	return ev.userID == h.AdminID
}

// Backup is the downloadable snapshot of the registry and the ledger.
type Backup struct {
	Clients []models.ClientProfile           `json:"clients"`
	History map[string][]models.HistoryEntry `json:"history"`
}

func (h *Handler) HandleAdminCommand(ev event, cmd, args string) {
	if !h.isAdmin(ev) {
		ev.log.WithField("command", cmd).Warn("⛔ Команда администратора от постороннего")
		h.send(ev.chatID, messages.AccessDenied)
		return
	}
	log := ev.log.WithField("command", cmd)
	log.Info("🔧 Команда администратора")

	var err error
	switch cmd {
	case "export":
		err = h.adminExport(ev)
	case "summary":
		err = h.adminSummary(ev)
	case "clients":
		err = h.sendLong(ev.chatID, report.RenderClients(h.Registry.List()))
	case "history":
		err = h.adminHistory(ev, args)
	case "clear":
		h.adminClear(ev)
	case "delete":
		h.adminDelete(ev, args)
	case "backup":
		err = h.adminBackup(ev)
	case "help":
		h.send(ev.chatID, messages.AdminHelp)
	}
	if err != nil {
		log.WithError(err).Error("❌ Команда не выполнена")
		h.send(ev.chatID, messages.InternalError)
	}
}

// Manual exports never touch the ledger or the open orders.
func (h *Handler) adminExport(ev event) error {
	date := h.today()
	t := report.BuildSummary(h.Registry.List(), h.Catalog, date)
	if t == nil {
		h.send(ev.chatID, messages.NothingToReport(date))
		return nil
	}
	return h.sendTable(ev.chatID, t)
}

func (h *Handler) adminSummary(ev event) error {
	date := h.today()
	t := report.BuildSummary(h.Registry.List(), h.Catalog, date)
	if t == nil {
		h.send(ev.chatID, messages.NothingToReport(date))
		return nil
	}
	return h.sendLong(ev.chatID, report.RenderText(t))
}

func (h *Handler) adminHistory(ev event, args string) error {
	n := defaultHistoryDays
	if v, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && v > 0 {
		n = v
	}
	dates := h.History.RecentDates(n)
	aggs := make([]report.DailyAggregate, 0, len(dates))
	for _, d := range dates {
		aggs = append(aggs, report.AggregateDay(d, h.History.Entries(d), h.Catalog))
	}
	return h.sendLong(ev.chatID, report.RenderHistory(aggs))
}

func (h *Handler) adminClear(ev event) {
	n, err := h.Registry.ClearAllOrders()
	if !h.check(ev, err) {
		return
	}
	h.observe()
	ev.log.WithField("cleared", n).Info("🗑 Все заказы очищены вручную")
	h.send(ev.chatID, messages.OrdersCleared(n))
}

func (h *Handler) adminDelete(ev event, args string) {
	id := strings.TrimSpace(args)
	if id == "" {
		h.send(ev.chatID, messages.DeleteUsage)
		return
	}
	err := h.Registry.DeleteClient(id)
	if errors.Is(err, registry.ErrClientNotFound) {
		h.send(ev.chatID, messages.ClientNotFound)
		return
	}
	if !h.check(ev, err) {
		return
	}
	h.Sessions.Forget(id)
	h.observe()
	ev.log.WithField("deleted", id).Info("❌ Клиент удалён")
	h.send(ev.chatID, messages.ClientDeleted(id))
}

func (h *Handler) adminBackup(ev event) error {
	data, err := json.MarshalIndent(Backup{
		Clients: h.Registry.List(),
		History: h.History.Snapshot(),
	}, "", "  ")
	if err != nil {
		return err
	}
	doc := report.Document{Filename: "backup_" + h.today() + ".json", Data: data}
	return h.sendDocument(ev.chatID, doc, "")
}
