package messages

import (
	"errors"
	"fmt"
	"strings"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/session"
)

const (
	AskLocationName = "Привет! Для оформления заказов нужна регистрация.\nВведите название точки:"
	AskAddress      = "Введите адрес точки:"
	UseMenu         = "Пожалуйста, используйте меню 👇"
	MainMenuTitle   = "Главное меню"
	ChooseItem      = "Выберите позицию для заказа:"
	EmptyOrder      = "Ваш заказ пуст."
	OrderCleared    = "🗑 Заказ очищен."
	RegisterFirst   = "Сначала завершите регистрацию"
	BadItem         = "Неверная позиция"
	AccessDenied    = "⛔ Нет доступа."
	InternalError   = "⚠️ Что-то пошло не так, попробуйте ещё раз."
	ClientNotFound  = "Клиент не найден."
	DeleteUsage     = "Использование: /delete <client_id>"

	AdminHelp = "Команды администратора:\n" +
		"/export — таблица заказов (xlsx)\n" +
		"/summary — текстовая сводка\n" +
		"/clients — зарегистрированные точки\n" +
		"/history [N] — история за последние N дней\n" +
		"/clear — очистить все заказы\n" +
		"/delete <client_id> — удалить клиента\n" +
		"/backup — выгрузка базы (json)"
)

// Prompt returns the question for a registration step.
func Prompt(step models.RegistrationStep) string {
	switch step {
	case models.StepAwaitingAddress:
		return AskAddress
	default:
		return AskLocationName
	}
}

// InvalidRegistrationInput explains why the text was rejected and repeats the prompt.
func InvalidRegistrationInput(err error, step models.RegistrationStep) string {
	reason := "Значение не может быть пустым."
	if errors.Is(err, session.ErrInputTooLong) {
		reason = fmt.Sprintf("Слишком длинно, максимум %d символов.", session.MaxInputRunes)
	}
	return reason + "\n" + Prompt(step)
}

func RegistrationDone(p models.ClientProfile) string {
	return fmt.Sprintf("✅ Регистрация завершена!\nТочка: %s\nАдрес: %s", p.LocationName, p.Address)
}

func AskQuantity(sel models.PendingSelection, weight, current int) string {
	if sel.IsEdit {
		return fmt.Sprintf("Сейчас в заказе %s: %d шт.\nВведите новое количество (0 — удалить):", sel.Item, current)
	}
	return fmt.Sprintf("Сколько штук %s (вес: %d гр.)?", sel.Item, weight)
}

func InvalidQuantity(item string) string {
	return fmt.Sprintf("Введите целое неотрицательное число для %s!", item)
}

func QuantityAccepted(sel models.PendingSelection, qty int) string {
	switch {
	case qty == 0:
		return fmt.Sprintf("Позиция %s удалена из заказа.", sel.Item)
	case sel.IsEdit:
		return fmt.Sprintf("✏️ Изменено: %s — %d шт.", sel.Item, qty)
	default:
		return fmt.Sprintf("✅ Добавлено: %s — %d шт.", sel.Item, qty)
	}
}

// OrderView lists the open order in catalog order.
func OrderView(o models.Order, cat *catalog.Catalog) string {
	if o.IsEmpty() {
		return EmptyOrder
	}
	var b strings.Builder
	b.WriteString("📋 Ваш заказ:\n")
	weight := 0
	for _, it := range cat.Items() {
		q := o.Get(it.Name)
		if q == 0 {
			continue
		}
		weight += q * it.Weight
		fmt.Fprintf(&b, "• %s — %d шт.\n", it.Name, q)
	}
	fmt.Fprintf(&b, "Итого: %d шт., %d гр.", o.Total(), weight)
	return b.String()
}

func NothingToReport(date string) string {
	return fmt.Sprintf("Нет заказов на %s.", date)
}

func ExportCaption(date string, clients, total int) string {
	return fmt.Sprintf("Сводка заказов на %s: точек %d, всего %d шт.", date, clients, total)
}

func OrdersCleared(n int) string {
	return fmt.Sprintf("🗑 Заказы очищены, затронуто точек: %d", n)
}

func ClientDeleted(id string) string {
	return fmt.Sprintf("Клиент %s удалён.", id)
}

func Selected(item string) string {
	return "Выбрано: " + item
}
