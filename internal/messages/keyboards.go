package messages

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/models"
)

const (
	btnOrder   = "🛒 Сделать заказ"
	btnMyOrder = "📋 Мой заказ"
	btnClear   = "🗑 Очистить заказ"

	cbOrder      = "menu:order"
	cbMyOrder    = "menu:my"
	cbClear      = "menu:clear"
	cbItemPrefix = "item:"
	cbEditPrefix = "edit:"
)

// Action is a parsed callback token.
type Action int

const (
	ActUnknown Action = iota
	ActOrder
	ActMyOrder
	ActClear
	ActItem
	ActEdit
)

// ParseCallback decodes callback data. idx is the catalog position for
// ActItem and ActEdit.
func ParseCallback(data string) (Action, int) {
	switch data {
	case cbOrder:
		return ActOrder, 0
	case cbMyOrder:
		return ActMyOrder, 0
	case cbClear:
		return ActClear, 0
	}
	for prefix, act := range map[string]Action{cbItemPrefix: ActItem, cbEditPrefix: ActEdit} {
		if rest, ok := strings.CutPrefix(data, prefix); ok {
			idx, err := strconv.Atoi(rest)
			if err != nil || idx < 0 {
				return ActUnknown, 0
			}
			return act, idx
		}
	}
	return ActUnknown, 0
}

func ItemToken(idx int) string { return cbItemPrefix + strconv.Itoa(idx) }
func EditToken(idx int) string { return cbEditPrefix + strconv.Itoa(idx) }

// Клавиатура главного меню
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnOrder, cbOrder),
			tgbotapi.NewInlineKeyboardButtonData(btnMyOrder, cbMyOrder),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnClear, cbClear),
		),
	)
}

// CatalogMenu lists every item, two per row.
func CatalogMenu(cat *catalog.Catalog) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, it := range cat.Items() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(it.Name, ItemToken(i)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// OrderMenu offers an edit button per order line plus add/clear.
func OrderMenu(o models.Order, cat *catalog.Catalog) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, it := range cat.Items() {
		q := o.Get(it.Name)
		if q == 0 {
			continue
		}
		label := fmt.Sprintf("✏️ %s: %d", it.Name, q)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, EditToken(i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnOrder, cbOrder),
		tgbotapi.NewInlineKeyboardButtonData(btnClear, cbClear),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
